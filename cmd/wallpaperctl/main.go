// Command wallpaperctl browses the gallery from a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"pg_wallpaper/internal/client"
	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/gallery"
	"pg_wallpaper/internal/lib/logger/handlers/slogpretty"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

const usage = `usage: wallpaperctl [-api URL] [-v] <command> [args]

commands:
  signup -email E -password P [-name N]
  login  -email E -password P
  logout
  whoami
  list   [-search S] [-category C] [-sort recent|popular] [-pages N]
  top
  favs
  fav      <wallpaper id>
  comments <wallpaper id>
  comment  <wallpaper id> <text>
  download <wallpaper id> [-dir D]
`

type terminal struct {
	out io.Writer
}

func (t terminal) Success(msg string) { fmt.Fprintln(t.out, color.GreenString(msg)) }
func (t terminal) Error(msg string)   { fmt.Fprintln(t.out, color.RedString(msg)) }
func (t terminal) ToLogin() {
	fmt.Fprintln(t.out, color.YellowString("Sign in first: wallpaperctl login"))
}

type cli struct {
	log     *slog.Logger
	term    terminal
	api     *client.Client
	session *gallery.Session
	favs    *gallery.FavoriteController
	preview *gallery.PreviewController
}

func main() {
	_ = godotenv.Load()

	api := flag.String("api", envOr("PG_WALLPAPER_API", "http://localhost:8080"), "API base URL")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	c := newCLI(*api, *verbose)
	if err := c.session.Restore(ctx); err != nil {
		c.log.Warn("could not restore session", slog.Any("error", err))
	}

	if err := c.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI(apiURL string, verbose bool) *cli {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: level},
	}.NewPrettyHandler(os.Stderr))

	term := terminal{out: os.Stdout}
	tokens := gallery.NewFileTokenStore(sessionPath())
	api := client.New(log, apiURL, tokens)
	session := gallery.NewSession(log, api, tokens, term)

	return &cli{
		log:     log,
		term:    term,
		api:     api,
		session: session,
		favs:    gallery.NewFavoriteController(log, api, term, term, session),
		preview: gallery.NewPreviewController(log, api, term, term, session, gallery.DirSaver{Dir: "."}),
	}
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		email := fs.String("email", "", "")
		password := fs.String("password", "", "")
		name := fs.String("name", "", "")
		_ = fs.Parse(args)
		return ignoreNotified(c.session.SignUp(ctx, *email, *password, *name))

	case "login":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		email := fs.String("email", "", "")
		password := fs.String("password", "", "")
		_ = fs.Parse(args)
		if err := c.session.SignIn(ctx, *email, *password); err != nil {
			return ignoreNotified(err)
		}
		return c.whoami()

	case "logout":
		c.session.SignOut(ctx)
		return nil

	case "whoami":
		return c.whoami()

	case "list":
		return c.list(ctx, args)

	case "top":
		carousel := gallery.NewCarousel(c.log, c.api)
		defer carousel.Close()
		carousel.Load(ctx)
		for i, w := range carousel.State().Items {
			fmt.Printf("%d. %s\n", i+1, describe(w))
		}
		return nil

	case "favs":
		c.favs.Load(ctx)
		for _, id := range c.favs.State().IDs {
			fmt.Println(id)
		}
		return nil

	case "fav":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		c.favs.Load(ctx)
		if err := c.favs.Toggle(ctx, id); err != nil {
			return ignoreNotified(err)
		}
		c.favs.Wait()
		return nil

	case "comments":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		c.preview.Open(ctx, models.Wallpaper{ID: id})
		c.preview.Wait()
		for _, cm := range c.preview.State().Comments {
			fmt.Printf("%s  %s: %s\n", cm.CreatedAt.Format("2006-01-02 15:04"), cm.DisplayName(), cm.Content)
		}
		return nil

	case "comment":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		c.preview.Open(ctx, models.Wallpaper{ID: id})
		c.preview.Wait()
		return ignoreNotified(c.preview.PostComment(ctx, strings.Join(args[1:], " ")))

	case "download":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", ".", "")
		_ = fs.Parse(args[1:])

		w, err := c.api.Wallpaper(ctx, id)
		if err != nil {
			return err
		}
		preview := gallery.NewPreviewController(c.log, c.api, c.term, c.term, c.session, gallery.DirSaver{Dir: *dir})
		preview.TriggerDownload(ctx, w)
		preview.Wait()
		return nil
	}

	flag.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "")
	category := fs.String("category", models.CategoryAll, "")
	sort := fs.String("sort", string(models.SortRecent), "")
	pages := fs.Int("pages", 1, "")
	_ = fs.Parse(args)

	listing := gallery.NewListingController(c.log, c.api, c.term)
	defer listing.Close()

	listing.SetFilters(ctx, *search, *category, models.SortMode(*sort))
	listing.Wait()
	for i := 1; i < *pages; i++ {
		listing.LoadMore(ctx)
		listing.Wait()
	}

	st := listing.State()
	c.favs.Load(ctx)
	for _, w := range st.Items {
		mark := " "
		if c.favs.Has(w.ID) {
			mark = color.RedString("♥")
		}
		fmt.Printf("%s %s\n", mark, describe(w))
	}
	if st.HasMore {
		fmt.Println("... more available, use -pages")
	}
	return nil
}

func (c *cli) whoami() error {
	account, ok := c.session.User()
	if !ok {
		c.term.ToLogin()
		return nil
	}

	name := ""
	if account.Profile.FullName != nil {
		name = *account.Profile.FullName
	}
	fmt.Printf("%s %s\n", account.User.Email, name)
	return nil
}

func describe(w models.Wallpaper) string {
	name := "Untitled"
	if w.Name != nil && *w.Name != "" {
		name = *w.Name
	}
	return fmt.Sprintf("#%d %s [%s] downloads=%d", w.ID, name, strings.Join(w.Tags, ", "), w.DownloadCount)
}

func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("wallpaper id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid wallpaper id %q", args[0])
	}
	return id, nil
}

// ignoreNotified drops errors the user has already seen as a notice.
func ignoreNotified(err error) error {
	if errors.Is(err, gallery.ErrValidation) || errors.Is(err, gallery.ErrUnauthenticated) || errors.Is(err, gallery.ErrGateway) {
		return nil
	}
	return err
}

func sessionPath() string {
	if p := os.Getenv("PG_WALLPAPER_SESSION"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pg_wallpaper", "session.json")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
