package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	wirehttp "github.com/wirehttp/go-wirehttp"
)

var (
	flagConfig    string
	flagTimeout   time.Duration
	flagUserAgent string
	flagProxy     string
	flagProxyAuth string
	flagUser      string
	flagNoFollow  bool
	flagMaxHops   int
	flagLogLevel  string
	flagHeaders   []string
	flagOutput    string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "wirehttp",
	Short: "wirehttp - a raw-socket HTTP/1.1 client",
	Long: `wirehttp issues HTTP/1.1 requests over raw stream sockets with full
control over headers, encodings, cookies, authentication and proxying.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "config file (default ~/.wirehttp.yaml)")
	pf.DurationVar(&flagTimeout, "timeout", 0, "connect/read timeout")
	pf.StringVarP(&flagUserAgent, "user-agent", "A", "", "User-Agent header")
	pf.StringVarP(&flagProxy, "proxy", "x", "", "HTTP proxy as host:port")
	pf.StringVar(&flagProxyAuth, "proxy-auth", "", "proxy credentials as user:pass")
	pf.StringVarP(&flagUser, "user", "u", "", "credentials as user:pass for Basic/Digest auth")
	pf.BoolVar(&flagNoFollow, "no-redirect", false, "do not follow 3xx redirects")
	pf.IntVar(&flagMaxHops, "max-redirects", 0, "redirect hop ceiling (default 10)")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	pf.StringArrayVarP(&flagHeaders, "header", "H", nil, "extra header as 'Name: value' (repeatable)")
	pf.StringVarP(&flagOutput, "output", "o", "", "write the response body to a file")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "print status line and response headers")
}

// setup wires logging and loads optional config file defaults. Precedence
// is flag > config file > built-in default.
func setup(cmd *cobra.Command, args []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(flagLogLevel),
	})))

	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".wirehttp")
		viper.SetConfigType("yaml")
	}
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("config loaded", "file", viper.ConfigFileUsed())
	} else if flagConfig != "" {
		return err
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// newClient builds a configured Client from flags and config file values.
func newClient() *wirehttp.Client {
	cl := wirehttp.New()

	if flagTimeout > 0 {
		cl.Request.Timeout = flagTimeout
	} else if d := viper.GetDuration("timeout"); d > 0 {
		cl.Request.Timeout = d
	}
	if flagUserAgent != "" {
		cl.Request.UserAgent = flagUserAgent
	} else if ua := viper.GetString("user_agent"); ua != "" {
		cl.Request.UserAgent = ua
	}
	cl.Request.FollowRedirects = !flagNoFollow
	if flagMaxHops > 0 {
		cl.Request.MaxRedirects = flagMaxHops
	}

	proxy := flagProxy
	if proxy == "" {
		proxy = viper.GetString("proxy")
	}
	if proxy != "" {
		host, port := splitHostPort(proxy, 8080)
		cl.Request.Proxy.Host, cl.Request.Proxy.Port = host, port
		if flagProxyAuth != "" {
			cl.Request.Proxy.User, cl.Request.Proxy.Pass = splitPair(flagProxyAuth)
		}
	}
	if flagUser != "" {
		cl.Request.Credentials.User, cl.Request.Credentials.Pass = splitPair(flagUser)
	}
	for _, h := range flagHeaders {
		name, value := splitHeader(h)
		if name != "" {
			cl.SetHeader(name, value)
		}
	}
	return cl
}

func splitPair(s string) (string, string) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func splitHeader(s string) (string, string) {
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(name), strings.TrimSpace(value)
}

func splitHostPort(s string, defaultPort int) (string, int) {
	host, portStr, ok := strings.Cut(s, ":")
	if !ok {
		return s, defaultPort
	}
	port := 0
	for _, c := range portStr {
		if c < '0' || c > '9' {
			return host, defaultPort
		}
		port = port*10 + int(c-'0')
	}
	if port == 0 {
		port = defaultPort
	}
	return host, port
}
