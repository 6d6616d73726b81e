package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage error")

// report logs err, turning an expired or rejected session into a hint.
func (a *App) report(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		log.Printf("Session rejected (%s), please log in again", err.Error())
		a.userName = ""
		a.api.Logout()
		return err
	}
	log.Println(err.Error())
	return err
}

func (a *App) List(ctx context.Context) error {
	tasks, err := a.api.ListTasks(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(tasks) == 0 {
		printlnFn("No tasks")
	}
	for _, t := range tasks {
		printlnFn(t.String())
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := promptRequired(a.reader, os.Stdout, "Title")
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	description, err := promptParagraph(a.reader, os.Stdout, "Description")
	if err != nil {
		return err
	}

	id, err := a.api.CreateTask(ctx, title, description)
	if err != nil {
		return a.report(err)
	}

	printlnFn(fmt.Sprintf("Task created: #%d", id))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: show <id>")
		return ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Task id must be a positive number")
		return ErrUsage
	}

	task, err := a.api.GetTask(ctx, id)
	if err != nil {
		return a.report(err)
	}
	printlnFn(task.Details())
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	term := strings.Join(args, " ")

	tasks, err := a.api.SearchTasks(ctx, term)
	if err != nil {
		return a.report(err)
	}
	if len(tasks) == 0 {
		printlnFn("Nothing found")
	}
	for _, t := range tasks {
		printlnFn(t.String())
	}
	return nil
}

func (a *App) Details(ctx context.Context) error {
	tasks, err := a.api.ListTasksWithDetails(ctx)
	if err != nil {
		return a.report(err)
	}
	for _, t := range tasks {
		printlnFn(t.String())
	}
	return nil
}

func (a *App) Export(ctx context.Context) error {
	res, err := a.api.ExportTasks(ctx)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			printlnFn("Export is not available on this server")
			return err
		}
		return a.report(err)
	}
	printlnFn(fmt.Sprintf("Exported to %s\nDownload: %s", res.Key, res.URL))
	return nil
}
