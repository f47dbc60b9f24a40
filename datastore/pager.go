/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/asyncquery/storagemodels"
)

// PageFunc fetches up to limit items following cursor. cursor is nil for the
// first page; a nil next cursor ends the stream.
type PageFunc func(ctx context.Context, cursor any, limit int32) (items []storagemodels.Item, next any, err error)

// StreamPages drives fetch page by page and delivers the items on a buffered
// channel. Failed fetches are retried when isRetryable allows it; after that the
// error handler decides whether to try the page again or stop. A page the
// handler keeps accepting failures for is tried at most MaxRetries more times
// before the stream ends with its error.
func StreamPages(
	ctx context.Context,
	fetch PageFunc,
	isRetryable func(error) bool,
	opts ...storagemodels.StreamOption,
) <-chan storagemodels.StreamResult {
	options := storagemodels.ApplyStreamOptions(opts...)
	resultCh := make(chan storagemodels.StreamResult, options.BufferSize)

	go streamWorker(ctx, fetch, isRetryable, options, resultCh)

	return resultCh
}

type page struct {
	items []storagemodels.Item
	next  any
}

func streamWorker(
	ctx context.Context,
	fetch PageFunc,
	isRetryable func(error) bool,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult,
) {
	defer close(resultCh)

	var itemIndex int64
	var pageNumber int
	var failures int // consecutive failed attempts at the current page
	var errs []error
	startTime := time.Now()

	reportProgress := func() {
		if options.ProgressHandler == nil {
			return
		}
		progress := storagemodels.StreamProgress{
			ItemsProcessed: itemIndex,
			PagesProcessed: pageNumber,
			Errors:         errs,
			StartTime:      startTime,
		}
		if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(itemIndex) / elapsed
		}
		options.ProgressHandler(progress)
	}

	sendError := func(err error) {
		select {
		case <-ctx.Done():
		case resultCh <- storagemodels.StreamResult{
			Error: err,
			Meta: storagemodels.StreamMeta{
				Index:      itemIndex,
				PageNumber: pageNumber,
				Timestamp:  time.Now(),
			},
		}:
		}
	}

	var cursor any
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		p, err := Retry(ctx, options, isRetryable, func(ctx context.Context) (page, error) {
			items, next, err := fetch(ctx, cursor, options.PageSize)
			return page{items: items, next: next}, err
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if options.ErrorHandler == nil || !options.ErrorHandler(err) {
				sendError(fmt.Errorf("page %d: %w", pageNumber+1, err))
				return
			}
			failures++
			if failures > options.MaxRetries {
				sendError(fmt.Errorf("page %d: giving up after %d attempts: %w", pageNumber+1, failures, err))
				return
			}
			errs = append(errs, err)
			continue
		}

		failures = 0
		pageNumber++
		for _, item := range p.items {
			select {
			case <-ctx.Done():
				return
			case resultCh <- storagemodels.StreamResult{
				Item: item,
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}:
				itemIndex++
			}
		}

		reportProgress()

		if p.next == nil {
			return
		}
		cursor = p.next
	}
}
