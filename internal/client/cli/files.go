package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/rpc"
)

// stdout is where tables are rendered; tests swap it.
var stdout io.Writer = os.Stdout

// argOrPrompt returns args[i] or asks for it.
func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return getSimpleText(a.reader, prompt, os.Stdout)
}

// optionalPassword asks for a password; an empty answer means none.
func optionalPassword(prompt string) (*string, error) {
	pw, err := getPassword(prompt, os.Stdout)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pw)
	if len(pw) == 0 {
		return nil, nil
	}
	s := string(pw)
	return &s, nil
}

func describe(o *rpc.ObjectInfo) string {
	return fmt.Sprintf("%s  %s  %d bytes  %s  uploaded %s", o.ID, o.Name, o.Size, o.Access, o.CreatedAt.Local().Format(time.DateTime))
}

func (a *App) Upload(ctx context.Context, args []string) error {
	path, err := a.argOrPrompt(args, 0, "Enter path of the file to upload")
	if err != nil {
		return err
	}

	obj, err := a.fileService.Upload(ctx, path)
	if err != nil {
		return err
	}

	printlnFn("Uploaded:", describe(obj))
	return nil
}

func (a *App) List(ctx context.Context) error {
	objs, err := a.fileService.List(ctx)
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		printlnFn("No files")
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tACCESS\tUPLOADED")
	for _, o := range objs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", o.ID, o.Name, o.Size, o.Access, o.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func (a *App) Info(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter file id")
	if err != nil {
		return err
	}

	obj, err := a.fileService.Info(ctx, id)
	if err != nil {
		return err
	}

	printlnFn(describe(obj))
	printlnFn("Link id:", obj.LinkID)
	return nil
}

// Share sets the access of a file and prints its share link. The password
// is only asked for the "password" access.
func (a *App) Share(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter file id")
	if err != nil {
		return err
	}
	access, err := a.argOrPrompt(args, 1, "Enter access (public, private, password)")
	if err != nil {
		return err
	}

	var password *string
	if access == "password" {
		if password, err = optionalPassword("Enter link password"); err != nil {
			return err
		}
	}

	link, err := a.fileService.Share(ctx, id, access, password)
	if err != nil {
		return err
	}

	printlnFn("Access set to", access)
	printlnFn("Link:", link)
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter file id")
	if err != nil {
		return err
	}

	path, err := a.fileService.Download(ctx, id)
	if err != nil {
		return err
	}

	printlnFn("Saved to", path)
	return nil
}

// Fetch downloads a shared file by link or link id. It asks for a password
// and sends none when the answer is empty.
func (a *App) Fetch(ctx context.Context, args []string) error {
	link, err := a.argOrPrompt(args, 0, "Enter share link or link id")
	if err != nil {
		return err
	}

	password, err := optionalPassword("Enter link password (empty for none)")
	if err != nil {
		return err
	}

	path, err := a.fileService.Fetch(ctx, link, password)
	if err != nil {
		return err
	}

	printlnFn("Saved to", path)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter file id to delete")
	if err != nil {
		return err
	}

	if err := a.fileService.Delete(ctx, id); err != nil {
		return err
	}

	printlnFn("Deleted", id)
	return nil
}
