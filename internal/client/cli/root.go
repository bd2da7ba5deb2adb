package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/htmlkeeper/internal/client/client"
	"github.com/dmitrijs2005/htmlkeeper/internal/client/config"
)

// EnvServer overrides the server URL from the config file.
const EnvServer = "HTMLKEEPER_SERVER"

// API is the subset of the HTTP client the commands use.
type API interface {
	SaveHTML(ctx context.Context, in client.SaveInput) (client.SaveOutput, error)
	Upload(ctx context.Context, name string, r io.Reader) (client.UploadOutput, error)
}

// Factory builds an API for a server address.
type Factory func(server string, timeout time.Duration) (API, error)

// HTTPFactory connects to a real server.
func HTTPFactory(server string, timeout time.Duration) (API, error) {
	c, err := client.NewHTTPClient(server, timeout)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type options struct {
	config  string
	server  string
	timeout time.Duration
	json    bool
	newAPI  Factory
}

func (o *options) api() (API, error) {
	return o.newAPI(o.server, o.timeout)
}

// NewRootCmd assembles the command tree. newAPI is called once per command
// execution, after flags are parsed.
func NewRootCmd(newAPI Factory) *cobra.Command {
	o := &options{newAPI: newAPI}

	root := &cobra.Command{
		Use:           "htmlkeeper-cli",
		Short:         "Archive text as HTML and upload files to an htmlkeeper server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var defaults config.Config
	defaults.LoadDefaults()

	root.PersistentFlags().StringVar(&o.config, "config", "", "JSON config file")
	root.PersistentFlags().StringVarP(&o.server, "server", "s", defaults.ServerURL, "server base URL")
	root.PersistentFlags().DurationVar(&o.timeout, "timeout", defaults.Timeout, "per-request timeout")
	root.PersistentFlags().BoolVar(&o.json, "json", false, "print the server response as JSON")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return o.resolve(cmd)
	}

	root.AddCommand(newSaveCmd(o), newUploadCmd(o), newVersionCmd())
	return root
}

// resolve fills in settings the user did not pass as flags:
// defaults, then --config, then the environment.
func (o *options) resolve(cmd *cobra.Command) error {
	var cfg config.Config
	cfg.LoadDefaults()

	if o.config != "" {
		if err := cfg.LoadFile(o.config); err != nil {
			return err
		}
	}
	if v := os.Getenv(EnvServer); v != "" {
		cfg.ServerURL = v
	}

	if f := cmd.Flag("server"); f == nil || !f.Changed {
		o.server = cfg.ServerURL
	}
	if f := cmd.Flag("timeout"); f == nil || !f.Changed {
		o.timeout = cfg.Timeout
	}
	return nil
}
