package inferctl

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inferd/internal/rpc"
	"inferd/pkg/types"
)

func newGenerateCmd(cfg *Config) *cobra.Command {
	var (
		prompt      string
		maxLength   int32
		temperature float64
		topK        int32
		topP        float64
	)
	cmd := &cobra.Command{
		Use:     "generate [prompt...]",
		Short:   "Generate a continuation for a prompt",
		Example: "  inferctl generate --max-length 200 \"Once upon a time in Silicon Valley,\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := prompt
			if p == "" {
				p = strings.Join(args, " ")
			}
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("a prompt is required (--prompt or positional args)")
			}

			client, err := dialRPC(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := callCtx(cfg)
			defer cancel()
			resp, err := client.GenerateText(ctx, &rpc.TextGenerationRequest{
				Prompt:      p,
				MaxLength:   maxLength,
				Temperature: temperature,
				TopK:        topK,
				TopP:        topP,
			})
			if err != nil {
				return err
			}
			cfg.log.Debug().
				Float64("generation_time_s", resp.GenerationTime).
				Int32("input_tokens", resp.InputTokens).
				Int32("generated_tokens", resp.GeneratedTokens).
				Msg("generation round trip done")

			if cfg.JSONOut {
				return printJSON(cmd, types.GenerationResponse{
					GeneratedText:   resp.GeneratedText,
					GenerationTime:  resp.GenerationTime,
					InputTokens:     int(resp.InputTokens),
					GeneratedTokens: int(resp.GeneratedTokens),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated Text (took %.2f seconds):\n%s\n", resp.GenerationTime, resp.GeneratedText)
			fmt.Fprintf(out, "Tokens: %d in, %d out\n", resp.InputTokens, resp.GeneratedTokens)
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt text (alternative to positional args)")
	cmd.Flags().Int32Var(&maxLength, "max-length", 150, "Upper bound on total sequence length in tokens, prompt included")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.8, "Sampling temperature (0 = deterministic)")
	cmd.Flags().Int32Var(&topK, "top-k", 50, "Top-K sampling cutoff (0 disables)")
	cmd.Flags().Float64Var(&topP, "top-p", 0.95, "Nucleus sampling probability, in (0,1]")
	return cmd
}
