package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mlowery/cotag/internal/author"
	"github.com/mlowery/cotag/internal/config"
	"github.com/mlowery/cotag/internal/git"
	"github.com/mlowery/cotag/internal/input"
	"github.com/mlowery/cotag/internal/lookup"
	"github.com/mlowery/cotag/internal/style"
)

var tagCmd = &cobra.Command{
	Use:     "tag",
	GroupID: GroupWork,
	Short:   "Pick co-authors interactively and emit their trailers",
	Long: `Open the co-author token field, resolve the picked usernames, and
emit Co-Authored-By trailers.

By default the trailers are printed to stdout for pasting into a commit
message. With --amend they are appended to the HEAD commit's message in
place (the tree is untouched).

Tokens that fail to resolve are reported and skipped; remove and retype
them in the widget, or add the co-author by email with your provider of
choice.

Examples:
  cotag tag                      # print trailers
  cotag tag --amend              # rewrite HEAD with the trailers
  cotag tag --provider local     # suggest from this repo's history
  cotag tag --no-cache           # bypass the identity cache`,
	Args: cobra.NoArgs,
	RunE: runTag,
}

var (
	tagProvider string // --provider: identity provider override
	tagAmend    bool   // --amend: rewrite HEAD instead of printing
	tagNoCache  bool   // --no-cache: skip the on-disk identity cache
)

func init() {
	tagCmd.Flags().StringVar(&tagProvider, "provider", "", "Identity provider: github or local (default from config)")
	tagCmd.Flags().BoolVar(&tagAmend, "amend", false, "Amend the trailers onto HEAD")
	tagCmd.Flags().BoolVar(&tagNoCache, "no-cache", false, "Bypass the on-disk identity cache")

	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := registerProviders(cfg, !tagNoCache); err != nil {
		return err
	}

	name := tagProvider
	if name == "" {
		name = cfg.Provider
	}
	provider, err := lookup.GetRegistry().Get(name)
	if err != nil {
		return err
	}

	model := input.New(provider,
		input.WithPlaceholder(cfg.UI.Placeholder),
		input.WithMargin(cfg.UI.Margin),
		input.WithMaxSuggestions(cfg.UI.MaxSuggestions),
	)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("running picker: %w", err)
	}

	picker := final.(input.Model)
	if picker.Aborted() {
		fmt.Println(style.Dim.Render("Cancelled."))
		return nil
	}

	authors := picker.Authors()
	for _, login := range authors.Unresolved() {
		fmt.Fprintf(os.Stderr, "%s skipping @%s: no matching user\n", style.WarningPrefix, login)
	}

	resolved := authors.Resolved()
	if len(resolved) == 0 {
		fmt.Println(style.Dim.Render("No co-authors selected."))
		return nil
	}

	sigs := signatures(resolved)
	if !tagAmend {
		for _, s := range sigs {
			fmt.Println(git.CoAuthorTrailer(s))
		}
		return nil
	}

	repo, err := git.TopLevel("")
	if err != nil {
		return err
	}
	message, err := git.HeadMessage(repo)
	if err != nil {
		return err
	}
	if err := git.AmendHead(repo, git.AppendCoAuthors(message, sigs)); err != nil {
		return err
	}
	fmt.Printf("%s Amended HEAD with %d co-author(s)\n", style.SuccessPrefix, len(sigs))
	return nil
}

// signatures converts resolved authors to trailer signatures.
func signatures(resolved []author.Known) []git.Signature {
	sigs := make([]git.Signature, 0, len(resolved))
	for _, k := range resolved {
		sigs = append(sigs, git.Signature{Name: k.Name, Email: k.Email})
	}
	return sigs
}

// loadConfig reads the standard config file, falling back to defaults
// when it does not exist.
func loadConfig() (*config.Config, error) {
	path, err := config.Path()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// registerProviders builds the configured providers and registers them.
// The GitHub provider is always available; the local provider only when
// run inside a git repository.
func registerProviders(cfg *config.Config, cached bool) error {
	reg := lookup.GetRegistry()

	var opts []lookup.GitHubOption
	if cfg.GitHub.Endpoint != "" {
		opts = append(opts, lookup.WithBaseURL(cfg.GitHub.Endpoint))
	}
	if cfg.GitHub.TokenEnv != "" {
		if token := os.Getenv(cfg.GitHub.TokenEnv); token != "" {
			opts = append(opts, lookup.WithToken(token))
		}
	}

	var github lookup.Provider = lookup.NewGitHub(opts...)
	if cached && cfg.Cache.Enabled {
		path, err := lookup.DefaultCachePath()
		if err != nil {
			return err
		}
		github = lookup.NewCache(github, path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	}
	reg.Register(github)

	if repo, err := git.TopLevel(""); err == nil {
		reg.Register(lookup.NewLocal(repo))
	}

	return nil
}
