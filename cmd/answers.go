package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intizar/easyapply/pkg/answers"
	"github.com/intizar/easyapply/pkg/config"
	"github.com/intizar/easyapply/pkg/store"
	"github.com/intizar/easyapply/pkg/style"
)

var pendingFlag bool

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Manage learned question answers",
	Long: `List or correct the persisted answers used for application questions.

Sentinel answers ("` + answers.Sentinel + `") mark questions no rule could
resolve; correct them here so future applications use your answer.

Examples:
  easyapply answers list
  easyapply answers list --pending
  easyapply answers set "do you have a valid visa?" "Yes"`,
}

var answersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted question-answer pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.ListAnswers(cmd.Context())
		if err != nil {
			return err
		}
		shown := 0
		for _, e := range entries {
			if pendingFlag && e.Answer != answers.Sentinel {
				continue
			}
			answer := e.Answer
			if answer == answers.Sentinel {
				answer = style.C(style.Yellow, answer)
			}
			fmt.Printf("%s %s\n", style.C(style.Cyan, e.Question+" ->"), answer)
			shown++
		}
		if shown == 0 {
			fmt.Println("No answers recorded yet.")
		}
		return nil
	},
}

var answersSetCmd = &cobra.Command{
	Use:   "set <question> <answer>",
	Short: "Set or correct an answer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		question := answers.Normalize(args[0])
		if err := st.SetAnswer(cmd.Context(), question, args[1]); err != nil {
			return err
		}
		fmt.Printf("Set %q = %q\n", question, args[1])
		return nil
	},
}

func init() {
	answersListCmd.Flags().BoolVar(&pendingFlag, "pending", false, "Only show sentinel answers needing correction")
	answersCmd.AddCommand(answersListCmd)
	answersCmd.AddCommand(answersSetCmd)
	rootCmd.AddCommand(answersCmd)
}
