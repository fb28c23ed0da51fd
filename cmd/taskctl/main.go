// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command taskctl is an interactive terminal client for the Taskly API.
//
// The server address comes from TASKLY_URL (default http://localhost:8080).
// The session token lives only in the running shell.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/taibuivan/taskly/pkg/taskclient"
)

type cliConfig struct {
	ServerURL   string `env:"TASKLY_URL"     envDefault:"http://localhost:8080"`
	HistoryFile string `env:"TASKLY_HISTORY"`
}

func main() {
	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "taskctl: %v\n", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptFor(nil),
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskctl: failed to initialize readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	shell := NewShell(taskclient.New(cfg.ServerURL), rl.Stdout())
	shell.readLine = func(prompt string) (string, error) {
		rl.SetPrompt(prompt)
		defer rl.SetPrompt(promptFor(shell.session))
		return rl.Readline()
	}
	shell.readPassword = func(prompt string) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return shell.readLine(prompt)
		}
		fmt.Fprint(shell.out, prompt)
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(shell.out)
		return string(password), err
	}

	fmt.Fprintf(shell.out, "Taskly at %s. Type 'help' for commands.\n", cfg.ServerURL)

	for {
		rl.SetPrompt(promptFor(shell.session))
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "taskctl: %v\n", err)
			os.Exit(1)
		}

		if shell.Execute(line) == errExit {
			return
		}
	}
}

func promptFor(session *taskclient.Session) string {
	if session == nil || session.Account() == nil {
		return "taskly> "
	}
	return session.Account().Username + "@taskly> "
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, command := range commands {
		items = append(items, readline.PcItem(command.name))
	}
	return readline.NewPrefixCompleter(items...)
}
