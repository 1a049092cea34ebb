package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/nao1215/sqlkernel"
)

func newExecCmd(opts *rootOptions) *cobra.Command {
	var (
		jsonOutput  bool
		stopOnError bool
	)
	cmd := &cobra.Command{
		Use:   "exec [cell...]",
		Short: "Run cells and print their outputs",
		Long: `Run each argument as one cell. Without arguments, cells are read from
stdin and separated by blank lines. Charts print their Vega-Lite JSON.`,
		Example: `  sqlkernel exec --db shop.db --create-if-missing "CREATE TABLE t (n INTEGER)"
  sqlkernel exec --db shop.db "%XVEGA_PLOT X_FIELD n Y_FIELD n MARK POINT <> SELECT n FROM t"
  cat cells.sql | sqlkernel exec --db shop.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cells := args
			if len(cells) == 0 {
				var err error
				if cells, err = splitCells(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if len(cells) == 0 {
				return errors.WithHint(errNoCells, "pass cells as arguments or on stdin")
			}

			k, err := opts.openKernel(cmd.Context())
			if err != nil {
				return err
			}
			defer k.Close()

			return runCells(cmd.Context(), k, cells, cellOutput{
				stdout:      cmd.OutOrStdout(),
				stderr:      cmd.ErrOrStderr(),
				json:        jsonOutput,
				stopOnError: stopOnError,
			})
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "print each output bundle as a JSON line")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "stop at the first failing cell")
	return cmd
}

var errNoCells = errors.New("no cells to run")

type cellOutput struct {
	stdout      io.Writer
	stderr      io.Writer
	json        bool
	stopOnError bool
}

// runCells executes cells in order. Failures are reported on stderr and
// counted; the returned error summarizes them.
func runCells(ctx context.Context, k *sqlkernel.Kernel, cells []string, out cellOutput) error {
	failed := 0
	for _, cell := range cells {
		reply := k.Execute(ctx, sqlkernel.ExecuteRequest{Code: cell})
		if reply.Status == sqlkernel.StatusError {
			failed++
			fmt.Fprintf(out.stderr, "[%d] %s: %s\n", reply.ExecutionCount, reply.Error.EName, reply.Error.EValue)
			for _, line := range reply.Error.Traceback[1:] {
				fmt.Fprintln(out.stderr, "    "+line)
			}
			if out.stopOnError {
				break
			}
			continue
		}
		for _, o := range reply.Outputs {
			if err := writeOutput(out, reply.ExecutionCount, o); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return errors.Newf("%d of %d cells failed", failed, len(cells))
	}
	return nil
}

func writeOutput(out cellOutput, count int, o sqlkernel.Output) error {
	if out.json {
		line := struct {
			Type           sqlkernel.OutputType `json:"output_type"`
			ExecutionCount int                  `json:"execution_count"`
			Data           sqlkernel.Bundle     `json:"data"`
		}{o.Type, count, o.Data}
		return errors.Wrap(json.NewEncoder(out.stdout).Encode(line), "failed to write output")
	}
	if chart, ok := o.Data[sqlkernel.MIMEVegaLite].(json.RawMessage); ok {
		_, err := fmt.Fprintln(out.stdout, string(chart))
		return errors.Wrap(err, "failed to write output")
	}
	_, err := fmt.Fprintln(out.stdout, o.Data.Text())
	return errors.Wrap(err, "failed to write output")
}

// splitCells reads blank-line separated cells.
func splitCells(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		cells   []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			cells = append(cells, strings.Join(current, "\n"))
			current = nil
		}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read cells")
	}
	flush()
	return cells, nil
}
