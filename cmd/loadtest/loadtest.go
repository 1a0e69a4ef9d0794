// Command loadtest opens many chat connections against a running
// server, joins, and floods messages to exercise the fanout path.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/johndosdos/chatrelay/internal/model"
)

func main() {
	endpoint := flag.String("endpoint", "ws://localhost:4000/ws", "websocket endpoint")
	clients := flag.Int("clients", 10, "number of concurrent connections")
	messages := flag.Int("messages", 20, "messages per connection")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var received atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			conn, _, err := websocket.Dial(ctx, *endpoint, nil)
			if err != nil {
				log.Printf("client %d: dial failed: %v", n, err)
				return
			}
			defer conn.CloseNow()

			join, err := model.Encode(model.EventJoin, model.JoinPayload{
				Username: fmt.Sprintf("loadtest-%d", n),
			})
			if err != nil {
				log.Printf("client %d: %v", n, err)
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, join); err != nil {
				log.Printf("client %d: join failed: %v", n, err)
				return
			}

			// Keep draining broadcasts so the server never has to skip
			// this connection as a slow client.
			go func() {
				for {
					if _, _, err := conn.Read(ctx); err != nil {
						return
					}
					received.Add(1)
				}
			}()

			for m := 0; m < *messages; m++ {
				frame, err := model.Encode(model.EventSend, model.SendPayload{
					Text: fmt.Sprintf("message %d from client %d", m, n),
				})
				if err != nil {
					log.Printf("client %d: %v", n, err)
					return
				}
				if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
					log.Printf("client %d: send failed: %v", n, err)
					return
				}
			}

			// Let in-flight broadcasts land before hanging up.
			time.Sleep(2 * time.Second)
			conn.Close(websocket.StatusNormalClosure, "done")
		}(i)
	}

	wg.Wait()
	log.Printf("sent %d messages across %d clients, received %d frames",
		(*clients)*(*messages), *clients, received.Load())
}
