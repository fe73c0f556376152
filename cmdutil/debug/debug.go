// Package debug provides the servers a service exposes for operators: a gops
// agent and an expvar metrics endpoint.
package debug

import (
	"fmt"
	"sync"

	"github.com/google/gops/agent"
	"github.com/sirupsen/logrus"

	"github.com/heroku/hsts/cmdutil"
)

// NewAgentServer runs a gops agent on cfg.Port, bound to localhost only.
// Inspect the process with, for example:
//
//	gops stack 127.0.0.1:9999
func NewAgentServer(l logrus.FieldLogger, cfg Config) cmdutil.Server {
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	l = l.WithField("service", "gops")

	stopped := make(chan struct{})
	var once sync.Once

	return cmdutil.ServerFuncs{
		RunFunc: func() error {
			l.WithFields(logrus.Fields{"at": "binding", "addr": addr}).Info()

			if err := agent.Listen(agent.Options{Addr: addr}); err != nil {
				return err
			}
			defer agent.Close()

			<-stopped
			return nil
		},
		StopFunc: func(error) {
			once.Do(func() { close(stopped) })
		},
	}
}
