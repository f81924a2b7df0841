package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/aretw0/wayfinder/internal/content"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the visible question path of a survey for a set of answers",
	Long: `Computes which questions a respondent sees, in order, given the answers so far.
Answers are question=option-id pairs; multiple choice and ranking take a comma list.`,
	Example: `  wayfinder path --answer q1-aware=yes --answer q1a-tools=chatgpt,claude`,
	RunE: func(cmd *cobra.Command, args []string) error {
		surveyID, _ := cmd.Flags().GetString("survey")
		pairs, _ := cmd.Flags().GetStringArray("answer")

		app := openApp(cmd, false)
		defer app.Close()

		src := app.Engine.Surveys()
		if src == nil {
			return errors.New("the content has no surveys")
		}
		survey, err := src.Survey(cmd.Context(), surveyID)
		if err != nil {
			return err
		}
		answers, err := cli.ParseAnswers(survey, pairs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		path := quiz.ComputePath(survey.Questions, answers)
		for i, q := range path {
			mark := " "
			if _, answered := answers[q.ID]; answered {
				mark = "x"
			}
			fmt.Fprintf(out, "%2d. [%s] %-20s %s\n", i+1, mark, q.ID, q.Text)
		}
		fmt.Fprintf(out, "\nProgress: %d%% (%d questions)\n", quiz.Percent(path, answers), len(path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
	pathCmd.Flags().String("survey", content.ScreeningSurveyID, "Survey id")
	pathCmd.Flags().StringArray("answer", nil, "Answer as question=value (repeatable)")
}
