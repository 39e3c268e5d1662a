package cli

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/homeweave/weavectl/internal/logging"
	"github.com/homeweave/weavectl/static"
)

// newServeCommand creates the serve command
func newServeCommand() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web console page",
		Long: `Serve the embedded web console page and proxy its API calls to the
configured Weave server. The page is static; all plugin state stays on
the server it talks to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("listen") {
				listenAddr = cfg.ListenAddr
			}

			handler, err := newConsoleHandler(cfg.APIURL, cfg.Debug)
			if err != nil {
				return err
			}

			fmt.Printf("🌐 Serving plugin console on %s (backend: %s)\n", listenAddr, cfg.APIURL)
			return http.ListenAndServe(listenAddr, handler)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Address to listen on")

	return cmd
}

// newConsoleHandler builds the HTTP handler for the web console: the
// embedded static page at the root and a reverse proxy for /api/.
func newConsoleHandler(apiURL string, debug bool) (http.Handler, error) {
	target, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", apiURL, err)
	}

	logger := logging.NewConsoleLogger("[ConsoleProxy]", debug)

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Errorf("proxy %s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, `{"error": "backend unreachable"}`, http.StatusBadGateway)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debugf("proxy %s %s", r.Method, r.URL.Path)
		proxy.ServeHTTP(w, r)
	}))
	mux.Handle("/", http.FileServer(http.FS(static.EmbeddedFS())))

	return mux, nil
}
