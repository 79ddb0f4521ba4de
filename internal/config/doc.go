// Package config provides configuration parsing for woby tools.
//
// The configuration is stored in woby.json. Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "hotReload": true,
//	  "logLevel": "debug",
//	  "logFormat": "json",
//	  "playground": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "tickMs": 500
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "woby"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "woby"
//	  },
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "bucket": "my-bucket",
//	    "prefix": "ci/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// WOBY_HOT_RELOAD, WOBY_PORT and WOBY_LOG_LEVEL override the file.
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Playground.Port)
package config
