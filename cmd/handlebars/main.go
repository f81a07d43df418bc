// Copyright (c) 2014 Alex Kalyvitis

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/rofrol/handlebars-go"
)

// Contract
// Inputs: a template directory (one named template per "*.hbs" file,
// optionally a "manifest.yaml" declaring more), a YAML data file, and the
// name of the template to render.
// Behavior: load every template/partial from the directory and manifest
// into one Registry (sprig helpers included), render the named template
// against the decoded YAML data, and write the result to stdout.

var (
	templateDir  = flag.String("templates", "", "Path to template directory")
	dataPath     = flag.String("data", "", "Path to YAML data file")
	templateName = flag.String("name", "", "Name of the template to render")
	strict       = flag.Bool("strict", false, "Enable strict mode (reserved for helper use)")
)

func main() {
	flag.Parse()
	if *templateDir == "" || *dataPath == "" || *templateName == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s --templates dir --data data.yaml --name template\n", os.Args[0])
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fs := afero.NewOsFs()
	reg := handlebars.NewFSRegistry(fs, *templateDir)
	handlebars.RegisterSprigHelpers(reg.Registry)
	reg.SetStrictMode(*strict)

	if err := reg.LoadDir(); err != nil {
		logger.Error("loading templates", "error", err)
		os.Exit(1)
	}
	if exists, _ := afero.Exists(fs, *templateDir+"/manifest.yaml"); exists {
		if err := reg.LoadManifest(*templateDir + "/manifest.yaml"); err != nil {
			logger.Error("loading manifest", "error", err)
			os.Exit(1)
		}
	}

	data, err := afero.ReadFile(fs, *dataPath)
	if err != nil {
		logger.Error("reading data file", "error", err)
		os.Exit(1)
	}
	var model interface{}
	if err := yaml.Unmarshal(data, &model); err != nil {
		logger.Error("decoding data file", "error", err)
		os.Exit(1)
	}

	if err := reg.RenderTemplate(*templateName, model, os.Stdout); err != nil {
		logger.Error("rendering template", "template", *templateName, "error", err)
		os.Exit(1)
	}
}
