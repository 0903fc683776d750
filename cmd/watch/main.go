// Command watch connects to a running viewer and prints state changes and
// frame statistics to the terminal. Useful for checking a headless viewer
// without opening a browser.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/armlab/go-armview/internal/log"
	"github.com/armlab/go-armview/pkg/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "Viewer host:port")
	interval := flag.Duration("interval", 2*time.Second, "Frame statistics interval")
	flag.Parse()

	log.Init("info")
	logger := log.Component("watch")

	url := "ws://" + *addr + "/ws/scene"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		logger.Error("dial failed", "url", url, "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Printf("watching %s\n", url)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.Close()
	}()

	var (
		frames     int
		lastReport = time.Now()
	)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logger.Info("connection closed", "error", err)
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}

		switch msg.Type {
		case protocol.TypeState:
			var st protocol.StateData
			if err := msg.ParseData(&st); err != nil {
				continue
			}
			fmt.Printf("state: pos=(%.2f, %.2f, %.2f) motors=%v tool=%v mode=%s/%s\n",
				st.Position[0], st.Position[1], st.Position[2],
				st.MotorsEnabled, st.ToolEnabled, st.ControlMode, st.CoordMode)

		case protocol.TypeScene:
			frames++
			if time.Since(lastReport) >= *interval {
				var sc protocol.SceneData
				if err := msg.ParseData(&sc); err != nil {
					continue
				}
				fps := float64(frames) / time.Since(lastReport).Seconds()
				fmt.Printf("frames: %.1f/s seq=%d motors=%v tool=%v animating=%v target=(%.2f, %.2f, %.2f)\n",
					fps, sc.Frame.Seq, sc.Frame.Motors, sc.Frame.Tool, sc.Frame.Animating,
					sc.Frame.Target[0], sc.Frame.Target[1], sc.Frame.Target[2])
				frames = 0
				lastReport = time.Now()
			}
		}
	}
}
