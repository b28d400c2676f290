package main

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrearampin/qscraper/session"
)

func newDownloadCmd(g *globalFlags) *cobra.Command {
	var (
		progress     bool
		sha256sum    string
		skipExisting bool
		atomic       bool
	)

	cmd := &cobra.Command{
		Use:   "download URL [DEST]",
		Short: "Stream a response body to a file, decoding gzip/deflate on the way",
		Long: `Streams URL into DEST. Without DEST the last path segment of URL is used
as the file name in the working directory; when DEST is a directory the
segment is joined to it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.session()
			if err != nil {
				return err
			}

			var dest string
			if len(args) == 2 {
				dest = args[1]
			}

			var opts []session.DownloadOption
			if progress {
				opts = append(opts, session.WithProgress())
			}
			if sha256sum != "" {
				opts = append(opts, session.WithChecksum(sha256.New(), sha256sum))
			}
			if skipExisting {
				opts = append(opts, session.WithSkipExisting())
			}
			if atomic {
				opts = append(opts, session.WithAtomic())
			}

			path, err := s.Download(cmd.Context(), args[0], dest, opts...).Await(cmd.Context())
			if err != nil {
				return err
			}

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&progress, "progress", false, "log download progress")
	f.StringVar(&sha256sum, "sha256", "", "expected hex SHA-256 of the decoded file")
	f.BoolVar(&skipExisting, "skip-existing", false, "do nothing when the destination already exists")
	f.BoolVar(&atomic, "atomic", false, "write to a temporary file and rename it into place on success")

	return cmd
}
