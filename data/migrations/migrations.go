// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the SQL schema so the API binary can migrate
// without the source tree next to it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
