package slackbot

import (
	"github.com/slack-go/slack"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// Block and action IDs for the inquiry modal.
const (
	blockQuestion      = "question_block"
	actionQuestion     = "question"
	blockEnvironments  = "environments_block"
	actionEnvironments = "environments"
	blockDeadline      = "deadline_block"
	actionDeadline     = "deadline"
)

// buildInquiryModal constructs the submission modal. channelID is stashed in
// private metadata so the outcome can be posted back where the command ran.
func buildInquiryModal(channelID string) slack.ModalViewRequest {
	questionInput := slack.NewPlainTextInputBlockElement(
		slack.NewTextBlockObject(slack.PlainTextType, "Describe your question or problem", false, false),
		actionQuestion,
	)
	questionInput.Multiline = true
	questionBlock := slack.NewInputBlock(
		blockQuestion,
		slack.NewTextBlockObject(slack.PlainTextType, "Question", false, false),
		nil,
		questionInput,
	)

	var envOptions []*slack.OptionBlockObject
	for _, env := range model.AllEnvironments {
		envOptions = append(envOptions, slack.NewOptionBlockObject(
			string(env),
			slack.NewTextBlockObject(slack.PlainTextType, string(env), false, false),
			nil,
		))
	}
	envSelect := slack.NewOptionsMultiSelectBlockElement(
		slack.MultiOptTypeStatic,
		slack.NewTextBlockObject(slack.PlainTextType, "Select environments", false, false),
		actionEnvironments,
		envOptions...,
	)
	envBlock := slack.NewInputBlock(
		blockEnvironments,
		slack.NewTextBlockObject(slack.PlainTextType, "Environments", false, false),
		nil,
		envSelect,
	)
	envBlock.Optional = true

	deadlineBlock := slack.NewInputBlock(
		blockDeadline,
		slack.NewTextBlockObject(slack.PlainTextType, "Deadline", false, false),
		nil,
		slack.NewDatePickerBlockElement(actionDeadline),
	)
	deadlineBlock.Optional = true

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      inquiryModalCallbackID,
		PrivateMetadata: channelID,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, "Infrastructure Inquiry", false, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, "Submit", false, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, "Cancel", false, false),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{questionBlock, envBlock, deadlineBlock},
		},
	}
}
