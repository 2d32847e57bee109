package main

import (
	"flag"
	"time"

	"github.com/nm-morais/go-chronos/configs"
	"github.com/nm-morais/go-chronos/pkg"
	"github.com/nm-morais/go-chronos/pkg/tick"
)

func main() {

	var tickMillis int
	var runSeconds int
	flag.IntVar(&tickMillis, "tick", 50, "tick interval in milliseconds")
	flag.IntVar(&runSeconds, "run", 10, "seconds to run before exiting")
	flag.Parse()

	config := configs.DefaultConfig()
	config.TickInterval = time.Duration(tickMillis) * time.Millisecond

	source := tick.NewRuntimeSource(config.TickInterval)
	defer source.Close()
	sched := pkg.NewTimerScheduler(config, source)
	logger := sched.Logger()

	heartbeat, err := sched.NewNamedTimer(time.Second, true, "heartbeat")
	if err != nil {
		panic(err.Reason())
	}
	heartbeat.Executed().Subscribe(func(args ...interface{}) {
		logger.Info("heartbeat fired")
	})

	oneShot, err := sched.NewTimer(3*time.Second, false)
	if err != nil {
		panic(err.Reason())
	}
	oneShot.Executed().Once(func(args ...interface{}) {
		logger.Infof("%s fired, active timers: %d", oneShot.Name(), len(sched.ActiveTimers()))
	})

	if err := heartbeat.Start(); err != nil {
		panic(err.Reason())
	}
	if err := oneShot.Start(); err != nil {
		panic(err.Reason())
	}

	time.Sleep(time.Duration(runSeconds) * time.Second)

	if err := heartbeat.Stop(false); err != nil {
		panic(err.Reason())
	}
	for _, record := range sched.RecentCompletions() {
		logger.Infof("journal: %s %s at %s", record.Timer, record.Kind, record.At.Format(time.StampMilli))
	}
}
