package prompts

import (
	"slices"
	"strings"
)

// Stage names a model-backed step of the follow-up pipeline whose system
// instructions may be overridden.
type Stage string

const (
	StageFollowUp Stage = "follow_up"
	StageVerify   Stage = "verify"
)

// Stages lists the overridable stages in pipeline order.
func Stages() []Stage {
	return []Stage{StageFollowUp, StageVerify}
}

// ParseStage accepts a stage name in any case, with "-" or "_" separators.
func ParseStage(s string) (Stage, error) {
	v := Stage(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !slices.Contains(Stages(), v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// UnmarshalText lets JSON bodies and TOML documents carry stages as strings.
func (s *Stage) UnmarshalText(text []byte) error {
	v, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
