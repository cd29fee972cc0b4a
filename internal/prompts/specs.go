package prompts

const followUpSpec = `Respond with a JSON object matching this exact structure:

{
  "is_correct_category": true,
  "missing_information": false,
  "follow_up_questions": ["<question1>", "<question2>"]
}

Field constraints:
- is_correct_category: Whether the assigned category fits the grievance.
- missing_information: Whether any mandatory form field cannot be filled
  from the grievance text alone.
- follow_up_questions: Questions to ask the citizen, one per missing
  detail, phrased plainly. Empty array when nothing is missing.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Ask only about details the required form fields call for
- Never ask for information already present in the grievance`

const verifySpec = `Respond with a JSON object matching this exact structure:

{
  "all_questions_answered": false,
  "additional_follow_up_needed": true,
  "suggested_follow_up": ["<question1>"]
}

Field constraints:
- all_questions_answered: True only when every numbered question is
  fully answered by the citizen's response.
- additional_follow_up_needed: Whether another round of questions is
  required to complete the grievance record.
- suggested_follow_up: Questions to ask next, restated from the
  unanswered or partially answered originals. Empty array when all
  questions are answered.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never introduce questions unrelated to the original set
- Treat a partial answer as unanswered for all_questions_answered`

var specs = map[Stage]string{
	StageFollowUp: followUpSpec,
	StageVerify:   verifySpec,
}

// Spec returns the hardcoded specification for a pipeline stage.
// Specifications define the expected output format and behavioral constraints
// and are not overridable.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
