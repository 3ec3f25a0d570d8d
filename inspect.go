package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/folio/internal/cms"
	"github.com/Zachkp/folio/internal/query"
)

var (
	outputFormat string
	queryDecoded bool
)

type fetcher func(cmd *cobra.Command, client *cms.Client, args []string) (any, error)

var fetchers = map[string]fetcher{
	"header": func(cmd *cobra.Command, c *cms.Client, _ []string) (any, error) {
		return c.Header(cmd.Context()), nil
	},
	"home": func(cmd *cobra.Command, c *cms.Client, _ []string) (any, error) {
		return c.Home(cmd.Context()), nil
	},
	"footer": func(cmd *cobra.Command, c *cms.Client, _ []string) (any, error) {
		return c.Footer(cmd.Context()), nil
	},
	"projects": func(cmd *cobra.Command, c *cms.Client, _ []string) (any, error) {
		return c.Projects(cmd.Context()), nil
	},
	"featured": func(cmd *cobra.Command, c *cms.Client, _ []string) (any, error) {
		return c.FeaturedProjects(cmd.Context()), nil
	},
	"project": func(cmd *cobra.Command, c *cms.Client, args []string) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("project needs an id")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid project id %q: %w", args[0], err)
		}
		return c.Project(cmd.Context(), id), nil
	},
	"technologies": func(cmd *cobra.Command, c *cms.Client, _ []string) (any, error) {
		return c.TechnologyCategories(cmd.Context()), nil
	},
	"profile": func(cmd *cobra.Command, c *cms.Client, _ []string) (any, error) {
		return c.Profile(cmd.Context()), nil
	},
}

func resourceNames() []string {
	names := make([]string, 0, len(fetchers))
	for name := range fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <resource> [id]",
	Short: "Fetch a CMS resource and print it",
	Long: `Fetches one resource the way the site does and prints the decoded result.
A failed fetch prints null; the reason is in the log.

Resources: ` + strings.Join(resourceNames(), ", "),
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: resourceNames(),
	RunE:      runInspect,
}

var queryCmd = &cobra.Command{
	Use:   "query [home|header]",
	Short: "Print the populate query string sent for a document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQuery,
}

func init() {
	inspectCmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml or json")
	queryCmd.Flags().BoolVar(&queryDecoded, "decoded", false, "print one unescaped parameter per line")
}

func runInspect(cmd *cobra.Command, args []string) error {
	fetch, ok := fetchers[args[0]]
	if !ok {
		return fmt.Errorf("unknown resource %q (want one of %s)", args[0], strings.Join(resourceNames(), ", "))
	}

	client := cms.New(cms.Options{
		BaseURL:    cfg.CMS.URL,
		Token:      cfg.CMS.Token,
		HTTPClient: &http.Client{Timeout: cfg.CMS.Timeout},
		Logger:     logger,
	})

	v, err := fetch(cmd, client, args[1:])
	if err != nil {
		return err
	}
	return writeValue(cmd.OutOrStdout(), outputFormat, v)
}

func writeValue(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	doc := "home"
	if len(args) > 0 {
		doc = args[0]
	}

	var q query.Values
	switch doc {
	case "home":
		q = query.Home()
	case "header":
		q = query.Header()
	default:
		return fmt.Errorf("unknown document %q", doc)
	}

	out := cmd.OutOrStdout()
	if !queryDecoded {
		_, err := fmt.Fprintln(out, q.Encode())
		return err
	}
	for _, p := range q {
		if _, err := fmt.Fprintf(out, "%s=%s\n", p.Key, query.FormatScalar(p.Value)); err != nil {
			return err
		}
	}
	return nil
}
