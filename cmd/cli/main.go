// Command cli is a terminal client for the chat API.
//
//	cli [-server URL] [-session FILE] <command> [args]
//
// Commands: signup <name> <email> <password>, login <email> <password>, me,
// contacts, messages <userId>, send <userId> <text>, profile <name> <email> [picture], logout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammar1510/chatterbox/internal/client"
	"github.com/ammar1510/chatterbox/internal/logger"
	"github.com/ammar1510/chatterbox/internal/models"
)

var log = logger.New("cli")

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatterbox-session"
	}
	return filepath.Join(home, ".chatterbox-session")
}

func main() {
	fs := flag.NewFlagSet("cli", flag.ExitOnError)
	server := fs.String("server", "http://localhost:8080", "chat server base URL")
	sessionFile := fs.String("session", defaultSessionFile(), "file holding the session token between runs")
	_ = fs.Parse(os.Args[1:])

	logger.SetMinLevel(logger.LevelWarn)

	if err := run(*server, *sessionFile, fs.Args()); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "error: %s (HTTP %d)\n", apiErr.Message, apiErr.Status)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(server, sessionFile string, args []string) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}

	api, err := client.New(server)
	if err != nil {
		return err
	}
	if token, err := os.ReadFile(sessionFile); err == nil {
		api.SetToken(strings.TrimSpace(string(token)))
	}

	store := client.NewStore(api)
	store.Subscribe(func(st client.State) {
		log.Debug("state: user=%v signingUp=%t loggingIn=%t updating=%t checking=%t",
			st.AuthUser != nil, st.IsSigningUp, st.IsLoggingIn, st.IsUpdatingProfile, st.IsCheckingAuth)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signup":
		if len(rest) != 3 {
			return errors.New("usage: signup <name> <email> <password>")
		}
		if err := store.Signup(ctx, models.SignupRequest{FullName: rest[0], Email: rest[1], Password: rest[2]}); err != nil {
			return err
		}
		return saveSession(sessionFile, api, store)

	case "login":
		if len(rest) != 2 {
			return errors.New("usage: login <email> <password>")
		}
		if err := store.Login(ctx, models.LoginRequest{Email: rest[0], Password: rest[1]}); err != nil {
			return err
		}
		return saveSession(sessionFile, api, store)

	case "me":
		if err := store.CheckAuth(ctx); err != nil {
			return err
		}
		printUser(store.Snapshot().AuthUser)
		return nil

	case "profile":
		if len(rest) < 2 || len(rest) > 3 {
			return errors.New("usage: profile <name> <email> [picture-url]")
		}
		req := models.UpdateProfileRequest{FullName: rest[0], Email: rest[1]}
		if len(rest) == 3 {
			req.ProfilePic = rest[2]
		}
		if err := store.UpdateProfile(ctx, req); err != nil {
			return err
		}
		printUser(store.Snapshot().AuthUser)
		return nil

	case "contacts":
		contacts, err := api.Contacts(ctx)
		if err != nil {
			return err
		}
		for i := range contacts {
			printUser(&contacts[i])
		}
		return nil

	case "messages":
		if len(rest) != 1 {
			return errors.New("usage: messages <userId>")
		}
		other, err := uuid.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		msgs, err := api.Messages(ctx, other)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			printMessage(m)
		}
		return nil

	case "send":
		if len(rest) < 2 {
			return errors.New("usage: send <userId> <text>")
		}
		msg, err := api.SendMessage(ctx, models.SendMessageRequest{ReceiverID: rest[0], Text: strings.Join(rest[1:], " ")})
		if err != nil {
			return err
		}
		printMessage(*msg)
		return nil

	case "logout":
		if err := store.Logout(ctx); err != nil {
			return err
		}
		if err := os.Remove(sessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		fmt.Println("Logged out")
		return nil
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func saveSession(path string, api *client.Client, store *client.Store) error {
	if err := os.WriteFile(path, []byte(api.Token()+"\n"), 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	printUser(store.Snapshot().AuthUser)
	return nil
}

func printUser(u *models.UserResponse) {
	if u == nil {
		fmt.Println("not signed in")
		return
	}
	fmt.Printf("%s  %s <%s>\n", u.ID, u.FullName, u.Email)
}

func printMessage(m models.MessageResponse) {
	from := m.SenderID.String()
	if m.Sender != nil {
		from = m.Sender.FullName
	}
	body := m.Text
	if m.Image != "" {
		body = strings.TrimSpace(body + " [image " + m.Image + "]")
	}
	fmt.Printf("%s  %s: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), from, body)
}
