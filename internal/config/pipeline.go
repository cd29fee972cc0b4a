package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/redress/internal/workflow"
)

const (
	EnvPipelineCategoryCollection = "REDRESS_PIPELINE_CATEGORY_COLLECTION"
	EnvPipelineFAQCollection      = "REDRESS_PIPELINE_FAQ_COLLECTION"
	EnvPipelineMaxFollowUpRounds  = "REDRESS_PIPELINE_MAX_FOLLOW_UP_ROUNDS"
	EnvPipelineMaxFAQLimit        = "REDRESS_PIPELINE_MAX_FAQ_LIMIT"
)

// PipelineConfig holds classification and clarification pipeline settings.
type PipelineConfig struct {
	CategoryCollection string `toml:"category_collection"`
	FAQCollection      string `toml:"faq_collection"`
	MaxFollowUpRounds  int    `toml:"max_follow_up_rounds"`
	MaxFAQLimit        int    `toml:"max_faq_limit"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.CategoryCollection != "" {
		c.CategoryCollection = overlay.CategoryCollection
	}
	if overlay.FAQCollection != "" {
		c.FAQCollection = overlay.FAQCollection
	}
	if overlay.MaxFollowUpRounds != 0 {
		c.MaxFollowUpRounds = overlay.MaxFollowUpRounds
	}
	if overlay.MaxFAQLimit != 0 {
		c.MaxFAQLimit = overlay.MaxFAQLimit
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.CategoryCollection == "" {
		c.CategoryCollection = "Grievance_Categories"
	}
	if c.FAQCollection == "" {
		c.FAQCollection = "Grievance_FAQs"
	}
	if c.MaxFollowUpRounds == 0 {
		c.MaxFollowUpRounds = 3
	}
	if c.MaxFAQLimit == 0 {
		c.MaxFAQLimit = 20
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineCategoryCollection); v != "" {
		c.CategoryCollection = v
	}
	if v := os.Getenv(EnvPipelineFAQCollection); v != "" {
		c.FAQCollection = v
	}
	if v := os.Getenv(EnvPipelineMaxFollowUpRounds); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxFollowUpRounds = n
		}
	}
	if v := os.Getenv(EnvPipelineMaxFAQLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxFAQLimit = n
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.MaxFollowUpRounds < 1 {
		return fmt.Errorf("max_follow_up_rounds must be at least 1")
	}
	if c.MaxFAQLimit < 1 || c.MaxFAQLimit > workflow.MaxFAQLimit {
		return fmt.Errorf("max_faq_limit must be between 1 and %d", workflow.MaxFAQLimit)
	}
	return nil
}
