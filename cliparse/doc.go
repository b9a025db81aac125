// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with
environment-variable fallback.

# Settings

Required:

  - CREATION_PASSWORD (-passwords): comma-separated shared secrets gating
    session creation. The server refuses to start without at least one.

Optional:

  - PORT (-p): server port (default: 3000)
  - MAX_SESSIONS_PER_IP (-max-sessions-per-ip): concurrent session cap per
    creator IP (default: 10, 0 disables)
  - ITEM_LIMIT (-item-limit): max items per session (default: 100, 0
    disables)
  - STRICT_PHASES (-strict-phases): gate add-item/remove-item/vote by the
    session phase (default: true)

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])
*/
package cliparse
