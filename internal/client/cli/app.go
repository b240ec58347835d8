// Package cli implements the social terminal client: a single command per
// invocation, acting as the user stored in the local session file.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/duynhne/social-service/internal/client"
	"github.com/duynhne/social-service/internal/core/domain"
)

// ErrUsage reports an unknown command or missing argument.
var ErrUsage = errors.New("usage")

const usage = `Commands:
  register             create an account and sign in
  login                sign in
  logout               forget the stored session
  whoami               show the signed-in user
  feed                 list posts with like counts
  post <id>            show a post with its comments
  publish              write a new post
  comment <post-id>    comment on a post
  like <post-id>       like a post
  unlike <post-id>     remove your like
  follow <user-id>     follow a user
  unfollow <user-id>   stop following a user
  profile <user-id>    show a user with posts and followers
  search <text>        search users, posts and comments
`

// App runs commands against the API client.
type App struct {
	client *client.Client
	in     *bufio.Reader
	out    io.Writer
}

// NewApp returns an App reading prompts from in and writing to out.
func NewApp(c *client.Client, in io.Reader, out io.Writer) *App {
	return &App{client: c, in: bufio.NewReader(in), out: out}
}

// Usage writes the command list.
func (a *App) Usage() {
	fmt.Fprint(a.out, usage)
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		if err := a.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Signed out.")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "feed":
		return a.feed(ctx)
	case "publish":
		return a.publish(ctx)
	case "search":
		if len(rest) == 0 {
			return fmt.Errorf("%w: search <text>", ErrUsage)
		}
		return a.search(ctx, strings.Join(rest, " "))
	}

	id, err := idArg(cmd, rest)
	if err != nil {
		return err
	}
	switch cmd {
	case "post":
		return a.post(ctx, id)
	case "comment":
		return a.comment(ctx, id)
	case "like":
		if _, err := a.client.Like(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Liked post %d.\n", id)
	case "unlike":
		if err := a.client.Unlike(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Unliked post %d.\n", id)
	case "follow":
		if err := a.client.Follow(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Following user %d.\n", id)
	case "unfollow":
		if err := a.client.Unfollow(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Stopped following user %d.\n", id)
	case "profile":
		return a.profile(ctx, id)
	}
	return nil
}

var idCommands = map[string]string{
	"post":     "post-id",
	"comment":  "post-id",
	"like":     "post-id",
	"unlike":   "post-id",
	"follow":   "user-id",
	"unfollow": "user-id",
	"profile":  "user-id",
}

func idArg(cmd string, rest []string) (int64, error) {
	label, ok := idCommands[cmd]
	if !ok {
		return 0, fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
	if len(rest) != 1 {
		return 0, fmt.Errorf("%w: %s <%s>", ErrUsage, cmd, label)
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", ErrUsage, label, rest[0])
	}
	return id, nil
}

func (a *App) register(ctx context.Context) error {
	email, err := ReadLine(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	name, err := ReadLine(a.in, "Name (optional)", a.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	password, err := ReadPassword(a.out)
	if err != nil {
		return err
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	user, err := a.client.Register(ctx, email, password, namePtr)
	if err != nil {
		return err
	}
	if err := a.client.Session().Save(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(user.Name, user.Email))
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := ReadLine(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := ReadPassword(a.out)
	if err != nil {
		return err
	}
	user, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.client.Session().Save(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", displayName(user.Name, user.Email))
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	if !a.client.Session().SignedIn() {
		return client.ErrSignedOut
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d %s <%s>\n", u.ID, displayName(u.Name, u.Email), u.Email)
	return nil
}

func (a *App) feed(ctx context.Context) error {
	items, err := a.client.Feed(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tLIKES\t")
	for _, it := range items {
		likes := strconv.Itoa(it.Likes)
		if it.LikedByMe {
			likes += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", it.Post.ID, it.Post.Title, author(it.Post.Author), likes)
	}
	return tw.Flush()
}

func (a *App) post(ctx context.Context, id int64) error {
	d, err := a.client.PostDetail(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d %s\nby %s, %d like(s)", d.Post.ID, d.Post.Title, author(d.Post.Author), len(d.Likes))
	if d.LikedByMe {
		fmt.Fprint(a.out, ", liked by you")
	}
	fmt.Fprintln(a.out)
	if d.Post.Content != nil && *d.Post.Content != "" {
		fmt.Fprintf(a.out, "\n%s\n", *d.Post.Content)
	}
	fmt.Fprintf(a.out, "\n%d comment(s)\n", len(d.Comments))
	for _, c := range d.Comments {
		fmt.Fprintf(a.out, "  %s: %s\n", author(c.Author), c.Body)
	}
	return nil
}

func (a *App) publish(ctx context.Context) error {
	title, err := ReadLine(a.in, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := ReadMultiline(a.in, "Content", a.out)
	if err != nil {
		return err
	}
	p, err := a.client.CreatePost(ctx, title, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Published post %d.\n", p.ID)
	return nil
}

func (a *App) comment(ctx context.Context, postID int64) error {
	body, err := ReadMultiline(a.in, "Comment", a.out)
	if err != nil {
		return err
	}
	c, err := a.client.CreateComment(ctx, postID, body)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added comment %d.\n", c.ID)
	return nil
}

func (a *App) profile(ctx context.Context, id int64) error {
	p, err := a.client.Profile(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d %s <%s>\n", p.User.ID, displayName(p.User.Name, p.User.Email), p.User.Email)
	fmt.Fprintf(a.out, "%d follower(s), following %d", len(p.Followers), len(p.Following))
	if p.FollowedByMe {
		fmt.Fprint(a.out, ", followed by you")
	}
	fmt.Fprintln(a.out)
	for _, post := range p.Posts {
		fmt.Fprintf(a.out, "  #%d %s\n", post.ID, post.Title)
	}
	return nil
}

func (a *App) search(ctx context.Context, q string) error {
	res, err := a.client.Search(ctx, q)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Users (%d)\n", len(res.Users))
	for _, u := range res.Users {
		fmt.Fprintf(a.out, "  #%d %s\n", u.ID, displayName(u.Name, u.Email))
	}
	fmt.Fprintf(a.out, "Posts (%d)\n", len(res.Posts))
	for _, p := range res.Posts {
		fmt.Fprintf(a.out, "  #%d %s\n", p.ID, p.Title)
	}
	fmt.Fprintf(a.out, "Comments (%d)\n", len(res.Comments))
	for _, c := range res.Comments {
		fmt.Fprintf(a.out, "  #%d on post %d: %s\n", c.ID, c.PostID, c.Body)
	}
	return nil
}

func displayName(name *string, email string) string {
	if name != nil && *name != "" {
		return *name
	}
	return email
}

func author(u *domain.UserSummary) string {
	if u == nil {
		return "unknown"
	}
	return displayName(u.Name, u.Email)
}
