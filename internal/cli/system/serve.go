package system

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/server"
)

// ServeCmd runs the JSON API until interrupted.
type ServeCmd struct {
	Addr    string   `help:"Address to listen on. Defaults to server.addr from the config file."`
	Origins []string `help:"Browser origins allowed to call the API (CORS)." sep:","`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" && ctx.Config != nil {
		addr = ctx.Config.Server.Addr
	}
	if addr == "" {
		addr = constants.DefaultServerAddr
	}

	if ctx.Config == nil || !ctx.Config.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	runCtx, stop := signal.NotifyContext(ctx.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(ctx.Store, server.WithAllowedOrigins(c.Origins...))
	ctx.Printf("Serving lifelog API on http://%s\n", addr)
	return srv.Run(runCtx, addr)
}
