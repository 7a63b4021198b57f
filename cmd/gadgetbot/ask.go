package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gadgetbot/internal/utils"

	"github.com/spf13/cobra"
)

var (
	askPromptOnly bool
	askJSON       bool
	askTimeout    time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Run one message through the pipeline from the terminal",
	Long: `Runs the same pipeline as POST /chat for a single message and prints the
reply followed by the facts it was grounded on. With --prompt-only the rendered
generator prompt is printed instead and no model is called.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askPromptOnly, "prompt-only", false, "print the generator prompt without calling the model")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall timeout")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	message := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if askPromptOnly {
		res, err := a.chat.Resolve(ctx, message)
		if err != nil {
			return err
		}
		if res.Blocked {
			fmt.Fprintln(out, "(blocked topic, no prompt)")
			return nil
		}
		fmt.Fprintln(out, res.Prompt)
		return nil
	}

	resp, err := a.chat.Chat(ctx, message)
	if err != nil {
		return err
	}

	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintln(out, resp.Response)
	if len(resp.DebugFacts) > 0 {
		fmt.Fprintf(out, "\n%d facts:\n", len(resp.DebugFacts))
		for _, f := range resp.DebugFacts {
			fmt.Fprintf(out, "  - %s  %s  %s (%s)\n", f.Model, utils.FormatRupiah(f.Price), f.Store, f.Condition)
		}
	}
	return nil
}
