// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse loads and validates the service configuration.

# Sources

Settings are layered, later sources winning:

 1. Default()
 2. YAML file passed to Load
 3. Environment (a .env file in the working directory is loaded first)
 4. CLI flags the user actually set, via ApplyFlags

Typical use from a cobra command:

	flags := cliparse.Default()
	cliparse.RegisterFlags(cmd.PersistentFlags(), &flags)
	// after parsing
	cfg, err := cliparse.Load(configPath)
	cliparse.ApplyFlags(cmd.Flags(), flags, &cfg)
	err = cfg.Validate()

# Keys

	YAML             env              flag
	port             PORT             -p, --port
	database_url     DATABASE_URL     -d, --database-url
	database_type    DATABASE_TYPE    -t, --database-type
	admin_key_salt   ADMIN_KEY_SALT   --admin-salt
	identity_salt    IDENTITY_SALT    --identity-salt
	catalog_url      CATALOG_URL      --catalog-url
	catalog_timeout  CATALOG_TIMEOUT  --catalog-timeout
	redis_url        REDIS_URL        --redis-url
	cache_ttl        CACHE_TTL        --cache-ttl
	log_level        LOG_LEVEL        --log-level
	log_file         LOG_FILE         --log-file

Durations use Go syntax ("5s", "1h").

# Secrets

ADMIN_KEY_SALT and IDENTITY_SALT are optional. Without an admin salt any
caller may end a poll; without an identity salt raw client addresses are
stored as voter identities.
*/
package cliparse
