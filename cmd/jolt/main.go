// Command jolt sends one HTTP request through the httpclient facade and
// prints the response.
//
//	jolt get /users/1 --base-url https://jsonplaceholder.typicode.com
//	jolt post /posts --param title=foo --param userId=1 --log-level verbose
//	jolt get /users --query "#.name"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
