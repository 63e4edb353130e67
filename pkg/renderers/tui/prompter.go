package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Menu is a single-choice question. Entries are shown in order and Current
// is preselected when it is in range.
type Menu struct {
	Title   string
	Entries []string
	Current int
	// Compact menus are short fixed lists (radio placeholders) and render
	// without paging.
	Compact bool
}

// Prompter is the terminal surface of a Session.
type Prompter interface {
	// AskName reads the identity recorded with submissions.
	AskName(ctx context.Context, suggested string) (string, error)
	// Pick returns the index of the chosen entry.
	Pick(ctx context.Context, menu Menu) (int, error)
	// Notify prints one status line.
	Notify(ctx context.Context, line string) error
}

type surveyPrompter struct {
	out      io.Writer
	pageSize int
}

// NewSurveyPrompter returns a Prompter backed by survey. Status lines go to
// out, or stdout when out is nil.
func NewSurveyPrompter(out io.Writer) Prompter {
	if out == nil {
		out = os.Stdout
	}
	return &surveyPrompter{out: out, pageSize: 10}
}

func (p *surveyPrompter) AskName(ctx context.Context, suggested string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var name string
	question := &survey.Input{
		Message: "Your name",
		Default: suggested,
		Help:    "Stored as the user of every record you submit.",
	}
	if err := survey.AskOne(question, &name, survey.WithValidator(survey.Required)); err != nil {
		return "", fromSurvey(err)
	}
	return strings.TrimSpace(name), nil
}

func (p *surveyPrompter) Pick(ctx context.Context, menu Menu) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	if len(menu.Entries) == 0 {
		return -1, ErrNoChoice
	}
	question := &survey.Select{
		Message:  menu.Title,
		Options:  menu.Entries,
		PageSize: p.pageSize,
	}
	if menu.Compact {
		question.PageSize = len(menu.Entries)
	}
	if menu.Current > 0 && menu.Current < len(menu.Entries) {
		question.Default = menu.Current
	}
	// survey writes an int answer as the selected index.
	var picked int
	if err := survey.AskOne(question, &picked); err != nil {
		return -1, fromSurvey(err)
	}
	return picked, nil
}

func (p *surveyPrompter) Notify(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out, line)
	return err
}

func fromSurvey(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
