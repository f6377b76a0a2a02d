package feed

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "github.com/samber/do/v2"

func NewFetcherI(_ do.Injector) (*Fetcher, error) {
	return NewFetcher(), nil
}

var Package = do.Package(
	do.Lazy(NewFetcherI),
)
