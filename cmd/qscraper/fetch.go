package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/andrearampin/qscraper/session"
	"github.com/andrearampin/qscraper/session/future"
)

func newFetchCmd(g *globalFlags, name string) *cobra.Command {
	method := strings.ToUpper(name)

	return &cobra.Command{
		Use:   name + " URL [k=v...]",
		Short: fmt.Sprintf("Issue a %s and print the decoded body", method),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, params, err := setup(g, args[1:])
			if err != nil {
				return err
			}

			var f *future.Future[string]
			if method == http.MethodPost {
				f = s.Post(cmd.Context(), args[0], params)
			} else {
				f = s.Get(cmd.Context(), args[0], params)
			}

			body, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}
}

func newJSONCmd(g *globalFlags) *cobra.Command {
	var post bool

	cmd := &cobra.Command{
		Use:   "json URL [k=v...]",
		Short: "Fetch a JSON document, repair \\xHH escapes and pretty-print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, params, err := setup(g, args[1:], session.WithJSONNumber())
			if err != nil {
				return err
			}

			var f *future.Future[any]
			if post {
				f = s.PostJSON(cmd.Context(), args[0], params)
			} else {
				f = s.GetJSON(cmd.Context(), args[0], params)
			}

			v, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}

	cmd.Flags().BoolVar(&post, "post", false, "send parameters as a form POST")

	return cmd
}

func newSelectCmd(g *globalFlags) *cobra.Command {
	var (
		post bool
		attr string
	)

	cmd := &cobra.Command{
		Use:   "select URL SELECTOR [k=v...]",
		Short: "Fetch an HTML page and print the text of every element matching a CSS selector",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, params, err := setup(g, args[2:])
			if err != nil {
				return err
			}

			var f *future.Future[*session.Document]
			if post {
				f = s.PostDocument(cmd.Context(), args[0], params)
			} else {
				f = s.GetDocument(cmd.Context(), args[0], params)
			}

			doc, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			doc.Find(args[1]).Each(func(_ int, sel *goquery.Selection) {
				if attr != "" {
					if v, ok := sel.Attr(attr); ok {
						fmt.Fprintln(out, v)
					}
					return
				}
				fmt.Fprintln(out, strings.TrimSpace(sel.Text()))
			})

			return nil
		},
	}

	cmd.Flags().BoolVar(&post, "post", false, "send parameters as a form POST")
	cmd.Flags().StringVar(&attr, "attr", "", "print this attribute instead of the element text")

	return cmd
}

func setup(g *globalFlags, rawParams []string, extra ...session.Option) (*session.Session, url.Values, error) {
	params, err := parseParams(rawParams)
	if err != nil {
		return nil, nil, err
	}

	s, err := g.session(extra...)
	if err != nil {
		return nil, nil, err
	}

	return s, params, nil
}
