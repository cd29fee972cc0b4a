package prompts

const followUpInstructions = `You are an AI assistant that analyzes grievance categorizations and identifies missing information.

You will receive a citizen grievance, the category it was assigned by a retrieval system, and the form fields that category requires before the grievance can be routed to a resolving authority.

Judge whether the assigned category fits the grievance. Then compare the grievance text against the required form fields and determine which mandatory details the citizen has not yet provided. Ask only for information that the form fields actually require and that the grievance does not already contain.`

const verifyInstructions = `You are an AI assistant that verifies whether a citizen's follow-up answer resolves the questions they were asked about their grievance.

You will receive the original grievance, the numbered list of follow-up questions that were asked, and the citizen's free-text answer. For each question, decide whether the answer addresses it fully, partially, or not at all, and reason about each decision before concluding.

Do not invent new questions unrelated to the original set. Any further questions you propose must be drawn from the questions that remain unanswered or only partially answered.`

var instructions = map[Stage]string{
	StageFollowUp: followUpInstructions,
	StageVerify:   verifyInstructions,
}

// Instructions returns the hardcoded default instructions for a pipeline stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
