package config

// configSchema is the JSON schema the merged settings must satisfy before
// they are unmarshalled into converter.Options. Numeric and boolean keys
// also accept strings because environment overrides arrive untyped; range
// checks happen later in Options validation. additionalProperties stays
// true so env noise sharing the prefix does not break runs.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "imgvariant configuration",
  "type": "object",
  "properties": {
    "inputPath": {
      "type": "string",
      "minLength": 1
    },
    "qualityWebp": {
      "anyOf": [
        {"type": "integer", "minimum": 0, "maximum": 100},
        {"type": "string", "pattern": "^[0-9]{1,3}$"}
      ]
    },
    "qualityAvif": {
      "anyOf": [
        {"type": "integer", "minimum": 0, "maximum": 100},
        {"type": "string", "pattern": "^[0-9]{1,3}$"}
      ]
    },
    "force": {
      "type": ["boolean", "string"]
    },
    "concurrency": {
      "type": ["integer", "string"],
      "pattern": "^[0-9]+$"
    },
    "ignore": {
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "changedOnly": {
      "type": ["boolean", "string"]
    },
    "verbose": {
      "type": ["boolean", "string"]
    },
    "tuiEnabled": {
      "type": ["boolean", "string"]
    },
    "outputFormat": {
      "type": "string",
      "enum": ["text", "json"]
    }
  },
  "additionalProperties": true
}`
