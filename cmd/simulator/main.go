package main

import "github.com/amineamaach/simulators/iotSimulatorMQTT/internal/cli"

func main() {
	cli.Run()
}
