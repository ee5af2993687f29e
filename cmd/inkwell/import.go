package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-blog/inkwell"
	"github.com/inkwell-blog/inkwell/cache"
	"github.com/inkwell-blog/inkwell/content"
	"github.com/inkwell-blog/inkwell/content/files"
	"github.com/inkwell-blog/inkwell/store"
)

type importOptions struct {
	from   string
	dbPath string
	prune  []string
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a directory of markdown posts into the SQLite content store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runImport(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "content", "Directory of <slug>.md files")
	cmd.Flags().StringVar(&opts.dbPath, "db", "data/blog.db", "SQLite database path")
	cmd.Flags().StringSliceVar(&opts.prune, "delete", nil, "Slugs to remove from the store after importing")

	return cmd
}

func runImport(cmd *cobra.Command, cfg inkwell.SiteConfig, opts *importOptions) error {
	src, err := files.New(opts.from)
	if err != nil {
		return err
	}
	st, err := store.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	var (
		imported, drafts int
		touched          []string
	)
	err = src.Walk(ctx, func(post content.Post, draft bool) error {
		if err := st.SavePost(ctx, post, !draft); err != nil {
			return fmt.Errorf("import %s: %w", post.Slug, err)
		}
		imported++
		touched = append(touched, post.Slug)
		if draft {
			drafts++
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, slug := range opts.prune {
		if err := st.DeletePost(ctx, slug); err != nil && !errors.Is(err, content.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", slug, err)
		}
		touched = append(touched, slug)
	}
	if err := invalidateShared(cmd, cfg, st, touched); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d posts (%d drafts) into %s\n", imported, drafts, opts.dbPath)
	return nil
}

// invalidateShared drops stale entries from the Redis cache a running server
// reads through. The in-process cache of a server is not reachable from here.
func invalidateShared(cmd *cobra.Command, cfg inkwell.SiteConfig, st *store.Store, slugs []string) error {
	if cfg.Cache.RedisAddr == "" || len(slugs) == 0 {
		return nil
	}
	rc, err := cache.NewRedis(cmd.Context(), cache.RedisOptions{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		Prefix:   cfg.Cache.Prefix,
	})
	if err != nil {
		return err
	}
	defer rc.Close()

	pc := inkwell.NewPostCache(st, rc, cfg.Revalidate, nil)
	for _, slug := range slugs {
		if err := pc.Invalidate(cmd.Context(), slug); err != nil {
			return fmt.Errorf("invalidate %s: %w", slug, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "invalidated %d cached posts\n", len(slugs))
	return nil
}
