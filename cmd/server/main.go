package main

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/JohnLemonNFT/sheepshead-sub001/internal/room"
	"github.com/JohnLemonNFT/sheepshead-sub001/internal/server"
	"github.com/JohnLemonNFT/sheepshead-sub001/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	addr := ":8080"
	if v := os.Getenv("ADDR"); v != "" {
		addr = v
	}

	st, err := store.New()
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer st.Close()

	manager := room.NewManager(st, log)
	srv := server.NewServer(manager, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.WSHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log.WithField("addr", addr).Info("listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
