package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screening/internal/domain"
	"github.com/spigell/screening/internal/interview"
)

const (
	PromptYes        = "Yes"
	PromptNo         = "No"
	PromptOtherJob   = "Other position"
	promptNotAllowed = "value is required"
)

var errAborted = errors.New("interview aborted")

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Take a screening interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		strategy, _ := cmd.Flags().GetString("strategy")
		runInterview(strategy)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("strategy", "s", "", "question strategy (bank or ai); defaults to questions.strategy")
}

func runInterview(strategy string) {
	ctx := context.Background()

	logger, config := bootstrap()
	defer logger.Sync()

	st, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer st.Close()

	svc, publisher, err := newService(ctx, config, st, logger)
	if err != nil {
		logger.Fatal("building the interview service", zap.Error(err))
	}
	defer publisher.Close()

	applied, err := applyInTerminal(ctx, svc)
	if err != nil {
		logger.Fatal("applying", zap.Error(err))
	}
	logger.Info(applied.Message,
		zap.String("interview_id", applied.Interview.ID),
		zap.String("job", applied.Job.Title))

	if applied.Interview.Status != domain.StatusPending {
		logger.Fatal("interview cannot be started",
			zap.String("status", string(applied.Interview.Status)))
	}

	confirm := promptui.Select{
		Label: fmt.Sprintf("Start the interview for %q now?", applied.Job.Title),
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := confirm.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
	if answer == PromptNo {
		logger.Info("exiting", zap.String("reason", "got no from prompt"),
			zap.String("interview_id", applied.Interview.ID))
		return
	}

	questions, err := svc.StartInterview(ctx, applied.Interview.ID, strategy)
	if err != nil {
		logger.Fatal("generating questions", zap.Error(err))
	}

	started := time.Now()
	answers, err := askQuestions(questions)
	if err != nil {
		logger.Fatal("exiting", zap.Error(err),
			zap.String("interview_id", applied.Interview.ID),
			zap.String("hint", "the interview stays IN_PROGRESS"))
	}

	result, err := svc.SubmitAnswers(ctx, applied.Interview.ID, interview.Submission{
		Answers:         answers,
		DurationSeconds: int(time.Since(started).Seconds()),
	})
	if err != nil {
		logger.Fatal("saving answers", zap.Error(err))
	}

	logger.Info(result.Message,
		zap.Float64("score", result.PreliminaryScore),
		zap.Int("keyword_hits", result.Breakdown.KeywordHits),
		zap.Duration("duration", time.Since(started).Round(time.Second)))
	fmt.Println()
	fmt.Println(result.Report.Interview.Feedback)
}

func applyInTerminal(ctx context.Context, svc *interview.Service) (*interview.ApplyResult, error) {
	var in interview.ApplyInput
	fields := []struct {
		label string
		dst   *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Email", &in.Email},
	}
	for _, f := range fields {
		value, err := (&promptui.Prompt{Label: f.label, Validate: required}).Run()
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}

	position, err := choosePosition(ctx, svc)
	if err != nil {
		return nil, err
	}
	in.JobPosition = position

	return svc.Apply(ctx, in)
}

func choosePosition(ctx context.Context, svc *interview.Service) (string, error) {
	jobs, err := svc.ListJobs(ctx, true)
	if err != nil {
		return "", err
	}

	items := make([]string, 0, len(jobs)+1)
	for _, job := range jobs {
		items = append(items, job.Title)
	}
	items = append(items, PromptOtherJob)

	jobPrompt := promptui.Select{
		Label: "Choose a position and press ENTER",
		Items: items,
		Size:  10,
	}
	_, selected, err := jobPrompt.Run()
	if err != nil {
		return "", err
	}
	if selected != PromptOtherJob {
		return selected, nil
	}

	return (&promptui.Prompt{Label: "Position", Validate: required}).Run()
}

func askQuestions(questions []domain.InterviewQuestion) ([]string, error) {
	answers := make([]string, len(questions))
	for i, q := range questions {
		fmt.Printf("\n[%d/%d] %s", i+1, len(questions), q.Question)
		if q.ExpectedMinutes > 0 {
			fmt.Printf(" (~%d min)", q.ExpectedMinutes)
		}
		fmt.Println()

		answer, err := (&promptui.Prompt{Label: "Answer"}).Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return nil, errAborted
			}
			return nil, err
		}
		answers[i] = answer
	}
	return answers, nil
}

func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New(promptNotAllowed)
	}
	return nil
}
