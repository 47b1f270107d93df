package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"lqd/internal/client"
)

func main() {
	host := flag.String("host", "localhost", "Server host")
	port := flag.Int("port", 43223, "Server port")
	useTLS := flag.Bool("ssl", false, "Connect over TLS")
	flag.Parse()

	c := client.New(net.JoinHostPort(*host, strconv.Itoa(*port)), *useTLS)

	fmt.Println("Ready to send queries. Type 'quit' or 'exit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" || query == "exit" {
			break
		}

		resp, err := c.Query(query)
		if err != nil {
			log.Err(err).Msg("Query failed:")
			continue
		}
		fmt.Println(resp)
	}
}
