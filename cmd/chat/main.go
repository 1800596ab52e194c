// Command chat is a minimal interactive client: a line-oriented bridge
// between stdin and the server socket. Server lines are printed to stdout;
// stdin lines are sent as commands.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
)

const maxLineLength = 1024

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <host:port>\n", os.Args[0])
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error connecting: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	done := make(chan struct{})

	// Server -> stdout. PINGs are answered in place so an idle client is
	// not dropped by the liveness deadline.
	go func() {
		defer close(done)
		reader := bufio.NewReaderSize(conn, maxLineLength)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println("Server disconnected.")
				return
			}
			text := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if text == "PING" {
				if _, err := fmt.Fprintf(conn, "PONG\n"); err != nil {
					return
				}
				continue
			}
			fmt.Println(text)
		}
	}()

	// stdin -> server.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if _, err := fmt.Fprintf(conn, "%s\n", scanner.Text()); err != nil {
				return
			}
		}
		// stdin closed; stop sending but keep printing server output.
	}()

	<-done
}
