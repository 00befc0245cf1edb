package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"coursehub-server-go/client"
	"coursehub-server-go/db"
)

// out receives rendered tables and details.
var out io.Writer = os.Stdout

var (
	apiURL       string
	staticDir    string
	identityFlag string
)

var rootCmd = &cobra.Command{
	Use:   "coursectl",
	Short: "Browse and edit course assignments, discussion topics and weeks",
	Long: `coursectl talks to a course server over /api/assignments, /api/discussion
and /api/weekly. With --static it reads the JSON fallback files from a
directory instead; changes made in that mode are shown but never saved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "course server base URL")
	rootCmd.PersistentFlags().StringVar(&staticDir, "static", "", "read static JSON files from this directory instead of the server")
	rootCmd.PersistentFlags().StringVar(&identityFlag, "as", "", "author name override")
}

func isStatic() bool { return staticDir != "" }

func api() *client.Client { return client.New(apiURL) }

func local() *db.DocStore { return client.NewStaticSource(staticDir) }

func source() client.Source {
	if isStatic() {
		return local()
	}
	return api()
}
