package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newUploadCmd(o *options) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload PATH",
		Short: "Upload a file",
		Long: `Streams a file to the server, which stores it under a time-prefixed
name in its uploads directory and mirrors it to remote storage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			defer f.Close()

			if name == "" {
				name = filepath.Base(args[0])
			}

			api, err := o.api()
			if err != nil {
				return err
			}

			out, err := api.Upload(cmd.Context(), name, f)
			if err != nil {
				return err
			}

			if o.json {
				return printJSON(cmd, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "file: %s\n", out.File)
			if out.URL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "url:  %s\n", out.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "file name to send (defaults to the base name of PATH)")
	return cmd
}
