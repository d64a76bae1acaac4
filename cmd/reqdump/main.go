// Command reqdump prints every request it receives as the engine parses it.
// It never answers.
package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"tinyweb/internal/request"
)

func main() {
	addr := flag.String("addr", ":42069", "listen address")
	size := flag.Int("recv-buffer", 1536, "bytes read from a connection as one request")
	flag.Parse()

	tcp, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Println("ERROR: failed to open.\n", err.Error())
		os.Exit(1)
	}
	defer tcp.Close()

	fmt.Println("Listening for TCP traffic on", *addr)
	req := request.New()
	buf := make([]byte, *size)
	for {
		conn, err := tcp.Accept()
		if err != nil {
			fmt.Println("ERROR: failed to accept.\n", err)
			continue
		}
		handleConn(os.Stdout, conn, req, buf)
	}
}

func handleConn(w io.Writer, conn net.Conn, req *request.Request, buf []byte) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	n, err := conn.Read(buf)
	if n == 0 {
		fmt.Fprintln(w, "ERROR: failed to read request:", err)
		return
	}
	req.Parse(buf[:n])
	dump(w, req)
}

func dump(w io.Writer, req *request.Request) {
	fmt.Fprintf(w, "Request line:\n- Method: %s (%q)\n- Target: %s\n- Version: %s\n",
		req.Method, req.MethodToken(), req.URL(), req.Protocol)

	fmt.Fprintln(w, "Headers:")
	if req.Headers.Len() == 0 {
		fmt.Fprintln(w, "- (none)")
	}
	for name, value := range req.Headers.All() {
		fmt.Fprintf(w, "- %s: %s\n", name, value)
	}
	if !req.Complete() {
		fmt.Fprintln(w, "- (no blank line)")
	}

	fmt.Fprintln(w, "Body:")
	if len(req.Body()) == 0 {
		fmt.Fprintln(w, "- (none)")
	} else {
		fmt.Fprintln(w, string(req.Body()))
	}

	fmt.Fprintln(w, "Overflow:", req.Overflow())
}
