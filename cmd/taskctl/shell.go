// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/taibuivan/taskly/pkg/pointer"
	"github.com/taibuivan/taskly/pkg/taskclient"
)

// errExit ends the shell loop.
var errExit = errors.New("exit requested")

const requestTimeout = 15 * time.Second

// Shell executes one command line at a time against a Taskly server.
type Shell struct {
	client  *taskclient.Client
	session *taskclient.Session
	out     io.Writer

	// Listing positions from the last "list", so "done 2" works.
	lastListing []string

	readLine     func(prompt string) (string, error)
	readPassword func(prompt string) (string, error)
}

// NewShell returns a logged-out shell writing to out.
func NewShell(client *taskclient.Client, out io.Writer) *Shell {
	return &Shell{client: client, out: out}
}

type command struct {
	name  string
	usage string
	run   func(shell *Shell, ctx context.Context, args []string) error
	auth  bool
}

var commands []command

func init() {
	commands = []command{
		{"register", "register                  create an account and log in", (*Shell).register, false},
		{"login", "login                     log in with email and password", (*Shell).login, false},
		{"whoami", "whoami                    show the logged-in account", (*Shell).whoami, true},
		{"list", "list [status=] [search=] [sort=] [order=]", (*Shell).list, true},
		{"add", "add <title>               create a task", (*Shell).add, true},
		{"done", "done <id|#>               mark a task completed", (*Shell).done, true},
		{"undo", "undo <id|#>               mark a task not completed", (*Shell).undo, true},
		{"rm", "rm <id|#>                 delete a task", (*Shell).remove, true},
		{"logout", "logout                    forget the session", (*Shell).logout, false},
		{"help", "help                      show this help", (*Shell).help, false},
		{"exit", "exit                      leave taskctl", func(*Shell, context.Context, []string) error { return errExit }, false},
	}
}

// Execute runs a single command line. It returns errExit when the shell
// should stop; other failures are printed and swallowed.
func (shell *Shell) Execute(line string) error {
	args := ParseArgs(line)
	if len(args) == 0 {
		return nil
	}

	for _, candidate := range commands {
		if candidate.name != args[0] {
			continue
		}
		if candidate.auth && shell.session == nil {
			fmt.Fprintln(shell.out, "Not logged in. Use 'login' or 'register'.")
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := candidate.run(shell, ctx, args[1:])
		if errors.Is(err, errExit) {
			return errExit
		}
		if taskclient.IsUnauthenticated(err) {
			shell.session = nil
			fmt.Fprintln(shell.out, "Session expired. Please log in again.")
			return nil
		}
		if err != nil {
			fmt.Fprintf(shell.out, "Error: %v\n", err)
		}
		return nil
	}

	fmt.Fprintf(shell.out, "Unknown command: %s\n", args[0])
	return nil
}

// ParseArgs splits a line on spaces, keeping double-quoted runs together.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// # Identity commands

func (shell *Shell) register(ctx context.Context, _ []string) error {
	username, err := shell.readLine("Username: ")
	if err != nil {
		return err
	}
	email, err := shell.readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := shell.readPassword("Password: ")
	if err != nil {
		return err
	}

	session, err := shell.client.Register(ctx, strings.TrimSpace(username), strings.TrimSpace(email), password)
	if err != nil {
		if taskclient.IsConflict(err) {
			fmt.Fprintln(shell.out, "That username or email is already taken.")
			return nil
		}
		return err
	}

	shell.session = session
	fmt.Fprintf(shell.out, "Welcome, %s.\n", session.Account().Username)
	return nil
}

func (shell *Shell) login(ctx context.Context, _ []string) error {
	email, err := shell.readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := shell.readPassword("Password: ")
	if err != nil {
		return err
	}

	session, err := shell.client.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}

	shell.session = session
	shell.lastListing = nil
	fmt.Fprintf(shell.out, "Logged in as %s.\n", session.Account().Username)
	return nil
}

func (shell *Shell) whoami(ctx context.Context, _ []string) error {
	account, err := shell.session.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(shell.out, "%s <%s> (%s)\n", account.Username, account.Email, account.ID)
	return nil
}

func (shell *Shell) logout(context.Context, []string) error {
	shell.session = nil
	shell.lastListing = nil
	fmt.Fprintln(shell.out, "Logged out.")
	return nil
}

// # Task commands

func (shell *Shell) list(ctx context.Context, args []string) error {
	var params taskclient.ListParams
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		switch key {
		case "status":
			params.Status = value
		case "search":
			params.Search = value
		case "sort":
			params.SortBy = value
		case "order":
			params.SortOrder = value
		default:
			return fmt.Errorf("unknown filter %q", key)
		}
	}

	tasks, err := shell.session.ListTasks(ctx, params)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(shell.out, "No tasks.")
		shell.lastListing = nil
		return nil
	}

	shell.lastListing = make([]string, 0, len(tasks))
	writer := tabwriter.NewWriter(shell.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "#\tDONE\tTITLE\tDUE\tID")
	for position, item := range tasks {
		shell.lastListing = append(shell.lastListing, item.ID)

		mark := " "
		if item.Completed {
			mark = "x"
		}
		due := "-"
		if item.DueDate != nil {
			due = item.DueDate.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(writer, "%d\t[%s]\t%s\t%s\t%s\n", position+1, mark, item.Title, due, item.ID)
	}
	return writer.Flush()
}

func (shell *Shell) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <title>")
	}

	created, err := shell.session.CreateTask(ctx, taskclient.NewTask{Title: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	fmt.Fprintf(shell.out, "Added %q (%s).\n", created.Title, created.ID)
	return nil
}

func (shell *Shell) done(ctx context.Context, args []string) error {
	return shell.setCompleted(ctx, args, true)
}

func (shell *Shell) undo(ctx context.Context, args []string) error {
	return shell.setCompleted(ctx, args, false)
}

func (shell *Shell) setCompleted(ctx context.Context, args []string, completed bool) error {
	id, err := shell.resolveID(args)
	if err != nil {
		return err
	}

	updated, err := shell.session.UpdateTask(ctx, id, taskclient.TaskUpdate{Completed: pointer.To(completed)})
	if err != nil {
		return shell.describeMissing(err)
	}

	state := "pending"
	if updated.Completed {
		state = "completed"
	}
	fmt.Fprintf(shell.out, "%q is now %s.\n", updated.Title, state)
	return nil
}

func (shell *Shell) remove(ctx context.Context, args []string) error {
	id, err := shell.resolveID(args)
	if err != nil {
		return err
	}

	if err := shell.session.DeleteTask(ctx, id); err != nil {
		return shell.describeMissing(err)
	}
	fmt.Fprintln(shell.out, "Task deleted.")
	return nil
}

func (shell *Shell) help(context.Context, []string) error {
	fmt.Fprintln(shell.out, "Commands:")
	for _, candidate := range commands {
		fmt.Fprintf(shell.out, "  %s\n", candidate.usage)
	}
	return nil
}

// # Helpers

// resolveID accepts a task ID or a position from the last listing.
func (shell *Shell) resolveID(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected exactly one task id or list position")
	}

	position, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil {
		return args[0], nil
	}
	if position < 1 || position > len(shell.lastListing) {
		return "", fmt.Errorf("no task at position %d; run 'list' first", position)
	}
	return shell.lastListing[position-1], nil
}

func (shell *Shell) describeMissing(err error) error {
	if taskclient.IsNotFound(err) {
		return errors.New("task not found")
	}
	return err
}
