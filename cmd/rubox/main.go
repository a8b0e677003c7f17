// rubox — interactive shell for a rubox storage server.
//
// Sub-commands:
//
//	rubox login [flags]    Authenticate and save a token
//	rubox logout           Revoke and delete the saved token
//	rubox [flags]          Start the interactive shell (default)
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/jangler/rubox/internal/logging"
	"github.com/jangler/rubox/internal/session"
	"github.com/jangler/rubox/internal/settings"
	"github.com/jangler/rubox/internal/shell"
	"github.com/jangler/rubox/pkg/client"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "login":
			cmdLogin(os.Args[2:])
			return
		case "logout":
			cmdLogout(os.Args[2:])
			return
		}
	}
	runShell()
}

func runShell() {
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	token := flag.String("token", "", "Bearer authentication token")
	verbosity := flag.Int("v", 0, "Verbosity level: 0=warn, 1=info, 2=debug")
	flag.Parse()

	level := "warn"
	switch *verbosity {
	case 1:
		level = "info"
	case 2:
		level = "debug"
	}
	if err := logging.Init(logging.Config{Level: level, Format: "console"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: logging init: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if *token == "" {
		*token = os.Getenv("RUBOX_TOKEN")
	}

	serverSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "server" {
			serverSet = true
		}
	})

	// Fall back to the saved token file.
	if *token == "" {
		tf, err := client.LoadToken()
		if err == nil {
			if tf.IsExpired(0) {
				fmt.Fprintf(os.Stderr, "Error: saved token has expired. Run 'rubox login' to authenticate.\n")
				os.Exit(1)
			}
			*token = tf.Token
			if !serverSet && tf.Server != "" {
				*serverURL = strings.TrimSuffix(tf.Server, "/")
			}
			logging.Info("using saved token", zap.String("user", tf.Username), zap.String("server", tf.Server))
		}
	}

	cl := client.New(client.Config{
		BaseURL:   *serverURL,
		AuthToken: *token,
	})

	store := settings.NewStore(settings.DefaultPath())
	sess := session.New(cl, store)
	sh := shell.New(sess)

	if err := sh.Run(context.Background()); err != nil {
		logging.Fatal("shell error", zap.Error(err))
	}
}

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "Server URL")
	deviceName := fs.String("device", "", "Device name (default: hostname)")
	fs.Parse(args)

	if *deviceName == "" {
		name, _ := os.Hostname()
		*deviceName = name
	}

	c := client.New(client.Config{
		BaseURL: strings.TrimSuffix(*serverURL, "/"),
		Timeout: 30 * time.Second,
	})
	ctx := context.Background()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}

	resp, err := c.Login(ctx, username, string(passwordBytes), *deviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tf := &client.TokenFile{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		Server:    *serverURL,
		Username:  resp.User.Username,
	}
	if err := client.SaveToken(tf); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save token: %v\n", err)
	}
	fmt.Printf("Login successful! Logged in as %s. Token saved to %s\n", resp.User.Username, client.TokenFilePath())
}

func cmdLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	fs.Parse(args)

	tf, err := client.LoadToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "No saved token found.\n")
		os.Exit(1)
	}

	c := client.New(client.Config{
		BaseURL:   strings.TrimSuffix(tf.Server, "/"),
		Timeout:   10 * time.Second,
		AuthToken: tf.Token,
	})

	if err := c.Logout(context.Background()); err != nil {
		logging.Debug("server logout failed", zap.Error(err))
	}

	if err := client.DeleteToken(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to delete token file: %v\n", err)
	}
	fmt.Println("Logged out successfully.")
}
