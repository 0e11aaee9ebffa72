package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/handlekeeper/internal/server"
)

func main() {

	ctx := context.Background()
	app, err := server.NewAppFromEnv(ctx)

	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
