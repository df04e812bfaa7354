package kernel

import (
	"context"
	"strings"

	"github.com/ece391/coreterm/internal/fd"
	"github.com/ece391/coreterm/internal/proc"
)

// ShellBody is the 32-bit shell's Go stand-in (spec.md §9's "a program
// body is whatever Go function plays the role this ELF would run"):
// print a prompt, read a line, and execute it, forever, exactly the
// way the shell's read-eval loop never returns except through halt.
// "exit" halts directly; any other unrecognized or failing command
// just reports and re-prompts, matching shell.c's "print an error and
// keep going" behavior rather than crashing the terminal.
func ShellBody(ctx context.Context, sc *proc.Syscalls) int32 {
	var buf [128]byte
	for {
		if ctx.Err() != nil {
			return 0
		}
		sc.Write(ctx, fd.StdoutFd, []byte("391OS> "))

		n, err := sc.Read(ctx, fd.StdinFd, buf[:])
		if err != 0 {
			return 0
		}
		line := strings.TrimRight(string(buf[:n]), "\n")
		if line == "" {
			continue
		}
		if line == "exit" {
			sc.Halt(0)
		}

		if _, eerr := sc.Execute(ctx, line); eerr != 0 {
			sc.Write(ctx, fd.StdoutFd, []byte(line+": command not found\n"))
		}
	}
}

// LsBody lists the filesystem's directory entries (the "ls" builtin a
// 391OS shell always ships with), grounded on directory_read's
// one-name-per-call loop via fdops.Directory_t.
func LsBody(ctx context.Context, sc *proc.Syscalls) int32 {
	dirFd, err := sc.Open(".")
	if err != 0 {
		return 1
	}
	defer sc.Close(dirFd)

	var name [33]byte
	for {
		n, rerr := sc.Read(ctx, dirFd, name[:])
		if rerr != 0 || n == 0 {
			return 0
		}
		sc.Write(ctx, fd.StdoutFd, append(name[:n], '\n'))
	}
}

// CatBody prints the file named by its argument string to stdout
// (the "cat" builtin read_data exists to support).
func CatBody(ctx context.Context, sc *proc.Syscalls) int32 {
	var argBuf [proc.MaxArgLen]byte
	if gerr := sc.Getargs(argBuf[:]); gerr != 0 {
		sc.Write(ctx, fd.StdoutFd, []byte("cat: missing filename\n"))
		return 1
	}
	name := strings.TrimRight(string(argBuf[:]), "\x00")

	fdNum, err := sc.Open(name)
	if err != 0 {
		sc.Write(ctx, fd.StdoutFd, []byte("cat: "+name+": not found\n"))
		return 1
	}
	defer sc.Close(fdNum)

	var buf [256]byte
	for {
		n, rerr := sc.Read(ctx, fdNum, buf[:])
		if rerr != 0 || n == 0 {
			return 0
		}
		sc.Write(ctx, fd.StdoutFd, buf[:n])
		if n < len(buf) {
			return 0
		}
	}
}

// BuiltinPrograms is the Registry every coreterm boot starts with:
// the shell every terminal launches plus the two builtins a 391OS
// shell minimally needs, name-addressed the way proc.Table_t resolves
// any execute() target.
func BuiltinPrograms() proc.Registry {
	return proc.Registry{
		"shell": ShellBody,
		"ls":    LsBody,
		"cat":   CatBody,
	}
}
