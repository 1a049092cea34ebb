package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nao1215/sqlkernel"
	"github.com/nao1215/sqlkernel/transport"
)

type versionInfo struct {
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Language        string `json:"language"`
	Platform        string `json:"platform"`
	GoVersion       string `json:"go_version"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show sqlkernel version information",
		// version needs no configuration or logger
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:         sqlkernel.ImplementationVersion,
				ProtocolVersion: transport.ProtocolVersion,
				Language:        sqlkernel.LanguageName + " " + sqlkernel.LanguageVersion,
				Platform:        runtime.GOOS + "/" + runtime.GOARCH,
				GoVersion:       runtime.Version(),
			}

			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sqlkernel.Implementation, info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Language: %s\n", info.Language)
			fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", info.Platform)
			fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	return cmd
}
