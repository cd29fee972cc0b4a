package api

import (
	"github.com/JaimeStill/redress/internal/categories"
	"github.com/JaimeStill/redress/internal/faqs"
	"github.com/JaimeStill/redress/internal/grievances"
	"github.com/JaimeStill/redress/internal/prompts"
	"github.com/JaimeStill/redress/internal/users"
	"github.com/JaimeStill/redress/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Categories categories.System
	FAQs       faqs.System
	Grievances grievances.System
	Prompts    prompts.System
	Users      users.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	promptsSystem := prompts.New(db, runtime.Cache, runtime.Logger, runtime.Pagination, runtime.MaxBody)

	pipeline := &workflow.Runtime{
		Index:     runtime.Index,
		Extractor: runtime.Extractor,
		Prompts:   promptsSystem,
		Collections: workflow.Collections{
			Categories: runtime.Pipeline.CategoryCollection,
			FAQs:       runtime.Pipeline.FAQCollection,
		},
		Logger: runtime.Logger,
	}

	return &Domain{
		Categories: categories.New(pipeline, runtime.Logger, runtime.MaxBody),
		FAQs: faqs.New(
			pipeline,
			runtime.Cache,
			runtime.Logger,
			runtime.MaxBody,
			runtime.Pipeline.MaxFAQLimit,
		),
		Grievances: grievances.New(
			db,
			pipeline,
			runtime.Storage,
			runtime.Logger,
			runtime.Pagination,
			runtime.MaxBody,
			runtime.Pipeline.MaxFollowUpRounds,
		),
		Prompts: promptsSystem,
		Users:   users.New(db, runtime.Logger, runtime.Pagination, runtime.MaxBody),
	}
}
