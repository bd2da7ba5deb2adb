package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/htmlkeeper/internal/client/client"
)

func newSaveCmd(o *options) *cobra.Command {
	var (
		in          client.SaveInput
		contentFile string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Archive text as an HTML document",
		Long: `Sends a title and content to the server, which stores them as an HTML
document in its archive, refreshes the archive index and mirrors the document
to remote storage.

Content is taken from --content, from --content-file, or from stdin when
neither is given. Without --file-name the document is named after the title.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readContent(cmd, in.Content, contentFile)
			if err != nil {
				return err
			}
			in.Content = content

			api, err := o.api()
			if err != nil {
				return err
			}

			out, err := api.SaveHTML(cmd.Context(), in)
			if err != nil {
				if client.IsSavedLocally(err) {
					cmd.PrintErrln("document was saved on the server but not fully processed")
				}
				return err
			}

			if o.json {
				return printJSON(cmd, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "path: %s\n", out.Path)
			if out.URL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "url:  %s\n", out.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "document title (required)")
	cmd.Flags().StringVarP(&in.FileName, "file-name", "f", "", "archive file name, without extension")
	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "document content")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "read content from this file ('-' for stdin)")
	_ = cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return cmd
}

func readContent(cmd *cobra.Command, inline, path string) (string, error) {
	if cmd.Flags().Changed("content") {
		return inline, nil
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open content file: %w", err)
		}
		defer f.Close()
		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("no content given")
	}
	return string(b), nil
}
