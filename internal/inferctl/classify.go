package inferctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"inferd/internal/rpc"
	"inferd/pkg/types"
)

func newClassifyCmd(cfg *Config) *cobra.Command {
	var (
		text   string
		labels string
	)
	cmd := &cobra.Command{
		Use:     "classify --text TEXT --labels a,b,c",
		Short:   "Classify a text into one of the given labels",
		Example: "  inferctl classify --text \"I loved this movie\" --labels positive,negative,neutral",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" {
				return fmt.Errorf("--text is required")
			}
			ls := splitCSV(labels)
			if len(ls) == 0 {
				return fmt.Errorf("--labels requires at least one label")
			}

			client, err := dialRPC(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := callCtx(cfg)
			defer cancel()
			resp, err := client.ClassifyText(ctx, &rpc.TextClassificationRequest{
				Text:   text,
				Labels: ls,
			})
			if err != nil {
				return err
			}
			cfg.log.Debug().
				Str("label", resp.Label).
				Float64("confidence", resp.Confidence).
				Msg("classification round trip done")

			if cfg.JSONOut {
				return printJSON(cmd, types.ClassificationResponse{
					Label:              resp.Label,
					Confidence:         resp.Confidence,
					ClassificationTime: resp.ClassificationTime,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Classification Result (took %.2f seconds):\n", resp.ClassificationTime)
			fmt.Fprintf(out, "Label: %s\nConfidence: %.2f\n", resp.Label, resp.Confidence)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Text to classify (required)")
	cmd.Flags().StringVar(&labels, "labels", "", "Comma-separated candidate labels; the first wins ties (required)")
	return cmd
}
