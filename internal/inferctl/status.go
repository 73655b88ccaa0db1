package inferctl

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"inferd/pkg/types"
)

func newStatusCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the daemon status from the admin endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimRight(cfg.AdminAddr, "/") + "/status"
			cfg.log.Debug().Str("url", url).Msg("fetching status")
			ctx, cancel := callCtx(cfg)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status endpoint returned %s", resp.Status)
			}
			var st types.StatusResponse
			if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
				return fmt.Errorf("decode status: %w", err)
			}

			if cfg.JSONOut {
				return printJSON(cmd, st)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "State:           %s\n", st.State)
			fmt.Fprintf(out, "Backend:         %s (%s)\n", st.Backend, st.Model)
			fmt.Fprintf(out, "Uptime:          %s\n", time.Duration(st.UptimeSeconds)*time.Second)
			fmt.Fprintf(out, "Inflight:        %d\n", st.Inflight)
			fmt.Fprintf(out, "Generations:     %d\n", st.GenerationsTotal)
			fmt.Fprintf(out, "Classifications: %d\n", st.ClassificationsTotal)
			fmt.Fprintf(out, "Failures:        %d\n", st.FailuresTotal)
			if st.LastError != "" {
				fmt.Fprintf(out, "Last error:      %s\n", st.LastError)
			}
			return nil
		},
	}
}
