// Command cli is a small terminal front end for the PickleMatch API,
// wired through pkg/client with a file-backed token store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/picklematch/picklematch/pkg/client"
)

func main() {
	serverURL := flag.String("server", envOr("PICKLEMATCH_SERVER", "http://localhost:3000"), "API server base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("cannot resolve home directory: %v", err)
	}
	store := client.NewFileTokenStore(filepath.Join(home, ".picklematch", "token"))
	c := client.New(*serverURL, store)
	ctx := context.Background()

	if err := run(ctx, c, args[0], args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		fs.Parse(args)
		resp, err := c.SignUp(ctx, client.SignUpRequest{
			Email:     *email,
			Password:  *password,
			FirstName: *first,
			LastName:  *last,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return printJSON(resp.User)

	case "signin":
		fs := flag.NewFlagSet("signin", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)
		resp, err := c.SignIn(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return printJSON(resp.User)

	case "logout":
		if err := c.SignOut(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "me":
		user, err := c.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)

	case "profile":
		user, err := c.Profile(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)

	case "set":
		fs := flag.NewFlagSet("set", flag.ExitOnError)
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		location := fs.String("location", "", "location")
		rank := fs.String("rank", "", "player rank label")
		elo := fs.Int("elo", 0, "skill rating")
		description := fs.String("description", "", "profile description")
		birthdate := fs.String("birthdate", "", "date of birth (YYYY-MM-DD)")
		fs.Parse(args)

		var update client.ProfileUpdate
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "first":
				update.FirstName = first
			case "last":
				update.LastName = last
			case "location":
				update.Location = location
			case "rank":
				update.PlayerRank = rank
			case "elo":
				update.Elo = elo
			case "description":
				update.Description = description
			case "birthdate":
				update.DateOfBirth = birthdate
			}
		})
		user, err := c.UpdateProfile(ctx, update)
		if err != nil {
			return err
		}
		return printJSON(user)

	case "password":
		fs := flag.NewFlagSet("password", flag.ExitOnError)
		current := fs.String("current", "", "current password")
		next := fs.String("new", "", "new password")
		fs.Parse(args)
		if err := c.ChangePassword(ctx, *current, *next); err != nil {
			return err
		}
		fmt.Println("password updated")
		return nil

	case "avatar":
		if len(args) != 1 {
			return fmt.Errorf("usage: avatar <image-file>")
		}
		user, err := c.UploadAvatar(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(user)

	case "avatar-rm":
		user, err := c.DeleteAvatar(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)

	case "health":
		if err := c.Health(ctx); err != nil {
			return err
		}
		fmt.Println("server is up")
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: cli [-server URL] <command> [flags]

commands:
  signup     -email -password [-first] [-last]
  signin     -email -password
  logout
  me
  profile
  set        [-first] [-last] [-location] [-rank] [-elo] [-description] [-birthdate]
  password   -current -new
  avatar     <image-file>
  avatar-rm
  health`)
}
