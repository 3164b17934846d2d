package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Upcoming(ctx context.Context) error
	ClearCompleted(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Notifications(ctx context.Context, args []string) error
}

const (
	helpSignedOut = `Available commands:
  signup              create an account
  login               sign in
  help                show this help
  exit | quit         leave the program`

	helpSignedIn = `Available commands:
  add                         add a task
  edit <n>                    edit task n of the last listing
  done <n>                    toggle task n completed
  delete <n>                  delete task n
  move <n> [<m>]              move task n before task m (or to the end)
  list [--active|--completed] [--sort] [search...]
  upcoming                    next tasks with a due date
  clear                       remove completed tasks
  export [path]               write tasks to a JSON file
  import <path>               append tasks from a JSON file
  notify [on|off]             switch reminders
  whoami                      show the signed-in account
  logout                      sign out
  exit | quit                 leave the program`
)

// runREPL starts a simple read–eval–print loop for the TaskKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on a with the remaining tokens as arguments. The
// loop exits on EOF or when the user types "exit" or "quit". Task commands
// require a signed-in account.
//
// Errors returned by handlers are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if s := statusFn(); s != "" {
			printFn(fmt.Sprintf("tk (%s)> ", s))
		} else {
			printFn("tk> ")
		}

		line, err := readLine(reader)
		if err != nil {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "signup", "register":
			report(a.Signup(ctx))
			continue
		case "login":
			report(a.Login(ctx))
			continue
		case "logout":
			report(a.Logout(ctx))
			continue
		case "whoami":
			report(a.WhoAmI(ctx))
			continue
		}

		handler, ok := taskCommand(a, cmd)
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			report(common.ErrNoSession)
			continue
		}
		report(handler(ctx, args))
	}
}

func taskCommand(a execIface, cmd string) (func(context.Context, []string) error, bool) {
	noArgs := func(fn func(context.Context) error) func(context.Context, []string) error {
		return func(ctx context.Context, _ []string) error { return fn(ctx) }
	}

	switch cmd {
	case "add":
		return noArgs(a.Add), true
	case "edit":
		return a.Edit, true
	case "done", "toggle":
		return a.Toggle, true
	case "delete", "rm":
		return a.Delete, true
	case "move", "mv":
		return a.Move, true
	case "l", "ls", "list":
		return a.List, true
	case "upcoming":
		return noArgs(a.Upcoming), true
	case "clear":
		return noArgs(a.ClearCompleted), true
	case "export":
		return a.Export, true
	case "import":
		return a.Import, true
	case "notify":
		return a.Notifications, true
	}
	return nil, false
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", userMessage(err))
	}
}

// userMessage maps service errors to what the user should read.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, common.ErrDuplicateAccount):
		return "an account with this email already exists"
	case errors.Is(err, common.ErrNoSession):
		return "please log in first"
	case errors.Is(err, common.ErrNotFound):
		return "no such task (run 'list' and use the task number)"
	}
	return err.Error()
}
