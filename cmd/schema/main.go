/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

// Command schema prints the key schema of every registered entity type,
// as a reference for table deployment and debugging.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"

	entitydata "github.com/envitrack/entitydata"
	"github.com/envitrack/entitydata/keys"
	_ "github.com/envitrack/entitydata/models"
	"github.com/envitrack/entitydata/registry"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		fmt.Printf("entitydata schema version %s (commit %s, built %s, %s)\n",
			entitydata.Version, entitydata.GitCommit, entitydata.BuildDate, runtime.Version())
		os.Exit(0)
	}

	schemas := registry.Schemas()
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].TypePrefix < schemas[j].TypePrefix
	})

	attrOrder := []string{
		keys.AttrPK, keys.AttrSK,
		keys.AttrGSI1PK, keys.AttrGSI1SK,
		keys.AttrGSI2PK, keys.AttrGSI2SK,
	}

	for _, s := range schemas {
		fmt.Printf("%s\n", s.TypePrefix)
		if s.CounterAttribute != "" {
			fmt.Printf("  counter: %s\n", s.CounterAttribute)
		}
		for _, attr := range attrOrder {
			if tmpl, ok := s.KeyTemplates[attr]; ok {
				fmt.Printf("  %-7s %s\n", attr, tmpl)
			}
		}
		fmt.Println()
	}
}
