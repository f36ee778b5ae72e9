// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/qom/cpu"
	"github.com/ezrec/qom/machine"
	"github.com/ezrec/qom/object"
	"github.com/ezrec/qom/translate"
)

func main() {
	var config string
	var model string
	var family string
	var smp int
	var lang string
	var verbose bool

	defaults := machine.DefaultConfig()

	flag.StringVar(&config, "M", "", ".toml or .star machine configuration")
	flag.StringVar(&model, "cpu", "", "CPU model, or 'help' to list them")
	flag.StringVar(&family, "family", "", "CPU family type")
	flag.IntVar(&smp, "smp", 0, "Number of CPUs")
	flag.StringVar(&lang, "lang", "", "Message language")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	object.Default.Verbose = verbose

	cfg := defaults
	if len(config) != 0 {
		var err error
		cfg, err = machine.LoadConfig(config, machine.NewMachine(defaults).Defines())
		if err != nil {
			log.Fatal(err)
		}
	}

	if len(model) != 0 {
		cfg.Cpu = model
	}
	if len(family) != 0 {
		cfg.Family = family
	}
	if smp != 0 {
		cfg.Smp = smp
	}
	cfg.Verbose = cfg.Verbose || verbose

	if cfg.Cpu == "help" {
		fmt.Printf("Available CPUs:\n")
		for typ := range cpu.Models(object.Default, cfg.Family) {
			fmt.Printf("  %v\n", cpu.ModelName(typ.Name(), cfg.Family))
		}
		return
	}

	m := machine.NewMachine(cfg)
	err := m.Init()
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	m.Reset()
	for _, c := range m.Cpus {
		fmt.Print(c.String())
	}
}
