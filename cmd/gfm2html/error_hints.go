package main

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/alnah/go-gfm2html/internal/config"
	"github.com/alnah/go-gfm2html/internal/hints"
)

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrConfigNotFound):
		dir, _ := os.UserConfigDir()
		return hints.ForConfigNotFound(dir)
	case errors.Is(err, syscall.EADDRINUSE):
		return hints.ForAddrInUse(listenAddr(err))
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteHTML):
		return hints.ForOutputDirectory()
	}
	return ""
}

// listenAddr extracts the local address from a listen failure.
func listenAddr(err error) string {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Addr != nil {
		return opErr.Addr.String()
	}
	return ""
}
