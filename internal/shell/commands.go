package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/jangler/rubox/internal/format"
	"github.com/jangler/rubox/internal/namespace"
	"github.com/jangler/rubox/pkg/models"
)

func (sh *Shell) cmdCd(ctx context.Context, args []string) {
	target := "/"
	if len(args) > 0 {
		target = args[0]
	}
	if target == "-" {
		target = sh.sess.OldPwd()
		if target == "" {
			fmt.Fprintln(sh.errw, "cd: no previous directory")
			return
		}
	}

	p := sh.sess.Resolve(target)
	ok, err := sh.sess.IsDir(ctx, p)
	if err != nil {
		fmt.Fprintf(sh.errw, "cd: %v\n", err)
		return
	}
	if !ok {
		fmt.Fprintf(sh.errw, "cd: not a directory: %s\n", p)
		return
	}
	sh.sess.SetPwd(p)
}

func (sh *Shell) cmdLs(ctx context.Context, args []string) {
	long := false
	if len(args) > 0 && args[0] == "-l" {
		long = true
		args = args[1:]
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	for _, exp := range sh.sess.Expand(ctx, args, false) {
		if exp.Err != nil {
			fmt.Fprintf(sh.errw, "ls: %v\n", exp.Err)
			continue
		}
		sh.listPath(ctx, exp.Path, long)
	}
}

func (sh *Shell) listPath(ctx context.Context, p string, long bool) {
	isDir, err := sh.sess.IsDir(ctx, p)
	if err != nil {
		fmt.Fprintf(sh.errw, "ls: %v\n", err)
		return
	}

	var nodes []*models.FileNode
	if isDir {
		children, err := sh.sess.List(ctx, p)
		if err != nil {
			fmt.Fprintf(sh.errw, "ls: %v\n", err)
			return
		}
		for _, cp := range children {
			if n, err := sh.sess.Get(ctx, cp, false); err == nil {
				nodes = append(nodes, n)
			}
		}
	} else {
		n, err := sh.sess.Get(ctx, p, false)
		if err != nil {
			fmt.Fprintf(sh.errw, "ls: %v\n", err)
			return
		}
		nodes = append(nodes, n)
	}
	format.Listing(sh.out, nodes, long)
}

func (sh *Shell) cmdGet(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.errw, "usage: get pattern...")
		return
	}
	for _, exp := range sh.sess.Expand(ctx, args, false) {
		if exp.Err != nil {
			fmt.Fprintf(sh.errw, "get: %v\n", exp.Err)
			continue
		}
		sh.download(ctx, exp.Path)
	}
}

func (sh *Shell) download(ctx context.Context, remote string) {
	r, _, err := sh.sess.Client().FetchContent(ctx, remote)
	if err != nil {
		fmt.Fprintf(sh.errw, "get: %v\n", err)
		return
	}
	defer r.Close()

	local := path.Base(remote)
	f, err := os.Create(local)
	if err != nil {
		fmt.Fprintf(sh.errw, "get: %v\n", err)
		return
	}
	written, err := io.Copy(f, r)
	f.Close()
	if err != nil {
		os.Remove(local)
		fmt.Fprintf(sh.errw, "get: %s: %v\n", remote, err)
		return
	}
	fmt.Fprintf(sh.out, "%s -> %s (%s)\n", remote, local, format.Size(written))
}

func (sh *Shell) cmdPut(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.errw, "usage: put file...")
		return
	}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			fmt.Fprintf(sh.errw, "put: no match: %s\n", arg)
			continue
		}
		sort.Strings(matches)
		for _, local := range matches {
			sh.upload(ctx, local)
		}
	}
}

func (sh *Shell) upload(ctx context.Context, local string) {
	f, err := os.Open(local)
	if err != nil {
		fmt.Fprintf(sh.errw, "put: %v\n", err)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		fmt.Fprintf(sh.errw, "put: %v\n", err)
		return
	}
	if fi.IsDir() {
		fmt.Fprintf(sh.errw, "put: %s: is a directory\n", local)
		return
	}

	remote := sh.sess.Resolve(filepath.Base(local))
	node, err := sh.sess.Client().UploadFile(ctx, remote, f, fi.Size())
	if err != nil {
		fmt.Fprintf(sh.errw, "put: %s: %v\n", local, err)
		return
	}
	sh.sess.Add(node)
	fmt.Fprintf(sh.out, "%s -> %s (%s)\n", local, remote, format.Size(fi.Size()))
}

func (sh *Shell) cmdRm(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.errw, "usage: rm pattern...")
		return
	}
	for _, exp := range sh.sess.Expand(ctx, args, false) {
		if exp.Err != nil {
			fmt.Fprintf(sh.errw, "rm: %v\n", exp.Err)
			continue
		}
		if err := sh.sess.Client().DeletePath(ctx, exp.Path); err != nil {
			fmt.Fprintf(sh.errw, "rm: %s: %v\n", exp.Path, err)
			continue
		}
		sh.sess.Remove(exp.Path)
		fmt.Fprintf(sh.out, "removed %s\n", exp.Path)
	}
}

func (sh *Shell) cmdMkdir(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.errw, "usage: mkdir dir...")
		return
	}
	for _, arg := range args {
		p := sh.sess.Resolve(arg)
		node, err := sh.sess.Client().CreateDirectory(ctx, p)
		if err != nil {
			fmt.Fprintf(sh.errw, "mkdir: %s: %v\n", p, err)
			continue
		}
		sh.sess.Add(node)
	}
}

func (sh *Shell) cmdShare(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.errw, "usage: share pattern...")
		return
	}
	for _, exp := range sh.sess.Expand(ctx, args, false) {
		if exp.Err != nil {
			fmt.Fprintf(sh.errw, "share: %v\n", exp.Err)
			continue
		}
		link, err := sh.sess.Client().ShareLink(ctx, exp.Path)
		if err != nil {
			fmt.Fprintf(sh.errw, "share: %s: %v\n", exp.Path, err)
			continue
		}
		fmt.Fprintf(sh.out, "%s: %s\n", exp.Path, link.URL)
	}
}

func (sh *Shell) cmdRefresh(args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	p := sh.sess.Resolve(target)
	if err := sh.sess.ForgetChildren(p); err != nil {
		if errors.Is(err, namespace.ErrNothingToForget) {
			fmt.Fprintf(sh.errw, "refresh: nothing cached for %s\n", p)
		} else {
			fmt.Fprintf(sh.errw, "refresh: %v\n", err)
		}
	}
}

func (sh *Shell) cmdLcd(args []string) {
	var target string
	if len(args) > 0 {
		target = args[0]
	} else {
		target, _ = os.UserHomeDir()
	}
	if target == "-" {
		target = sh.sess.LocalOldPwd()
		if target == "" {
			fmt.Fprintln(sh.errw, "lcd: no previous directory")
			return
		}
	}

	old, _ := os.Getwd()
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(sh.errw, "lcd: %v\n", err)
		return
	}
	sh.sess.SetLocalOldPwd(old)
}

func (sh *Shell) cmdLls(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(sh.errw, "lls: %v\n", err)
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		fmt.Fprintln(sh.out, name)
	}
}
