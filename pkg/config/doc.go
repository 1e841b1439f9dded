// Package config loads honeypot registries from JSON/YAML files and from
// x-honeypot extensions on OpenAPI request bodies.
//
// A configuration file maps form ids to honeypot declarations. Each
// declaration is either a bare name, registered as a text honeypot, or a
// name/kind mapping:
//
//	forms:
//	  contact:
//	    honeypots:
//	      - website
//	      - name: email
//	        kind: email
//
// Every form is built through honeypot.Registry.AddHoneypots, so one invalid
// declaration rejects the whole form.
package config
