package library

import (
	"io"

	"github.com/mizue/hondana/internal/domain"
)

// MoveSelectedToCategories opens the category picker preselected with the
// categories every selected manga already belongs to, then replaces each
// manga's memberships with exactly the chosen set. Completing the move
// exits batch mode.
func (e *Engine) MoveSelectedToCategories() {
	e.post(func() {
		items := e.selection.Items()
		if len(items) == 0 {
			return
		}

		// The default bucket behaves differently from real categories and
		// is never offered as a destination.
		choices := make([]domain.Category, 0, len(e.snapshot.Categories))
		for _, c := range e.snapshot.Categories {
			if !c.IsDefault() {
				choices = append(choices, c)
			}
		}

		common := CommonCategories(items, e.snapshot)
		preselected := make([]int, 0, len(common))
		for _, c := range common {
			preselected = append(preselected, c.ID)
		}

		e.co.Dialogs.PickCategories(choices, preselected, func(chosen []int) {
			e.post(func() { e.moveToCategories(items, chosen) })
		})
	})
}

func (e *Engine) moveToCategories(items []domain.Manga, categoryIDs []int) {
	ids := mangaIDs(items)
	go func() {
		err := e.co.Writer.SetMangaCategories(e.ctx, ids, categoryIDs)
		e.post(func() {
			if err != nil {
				e.logger.Error("failed to move manga to categories",
					"count", len(ids), "categories", categoryIDs, "error", err)
				e.co.Notify.Notify(noticeUpdateFailed)
			}
		})
	}()
	e.batch.Exit()
}

// DeleteSelected asks for confirmation and then removes every selected
// manga from the library. Completing the delete exits batch mode.
func (e *Engine) DeleteSelected() {
	e.post(func() {
		items := e.selection.Items()
		if len(items) == 0 {
			return
		}
		e.co.Dialogs.ConfirmDelete(len(items), func() {
			e.post(func() { e.deleteManga(items) })
		})
	})
}

func (e *Engine) deleteManga(items []domain.Manga) {
	ids := mangaIDs(items)
	go func() {
		err := e.co.Writer.DeleteManga(e.ctx, ids)
		e.post(func() {
			if err != nil {
				e.logger.Error("failed to delete manga", "count", len(ids), "error", err)
				e.co.Notify.Notify(noticeUpdateFailed)
			}
		})
	}()
	e.batch.Exit()
}

// ChangeSelectedCover requests a replacement cover image for the single
// selected manga. Rejected without opening the picker when more or fewer
// than one manga is selected, or when the manga is not favorited. The
// selection is unaffected by this operation's outcome.
func (e *Engine) ChangeSelectedCover() {
	e.post(func() {
		items := e.selection.Items()
		if len(items) != 1 {
			return
		}
		m := items[0]
		if !m.Favorite {
			e.co.Notify.Notify(noticeFavoriteFirst)
			return
		}
		e.coverToken++
		e.pendingCover = &coverRequest{token: e.coverToken, manga: m}
		e.co.Files.PickImage(e.coverToken)
	})
}

// DeliverCoverFile completes a pending cover request with the selected
// file's byte stream. The stream is closed in all paths. Requests whose
// token no longer matches are discarded.
func (e *Engine) DeliverCoverFile(token int, rc io.ReadCloser) {
	e.post(func() {
		req := e.pendingCover
		if req == nil || req.token != token {
			rc.Close()
			return
		}
		e.pendingCover = nil
		m := req.manga
		go func() {
			err := e.co.Covers.UpdateCover(e.ctx, rc, m)
			rc.Close()
			e.post(func() {
				if err != nil {
					e.logger.Error("cover update failed", "mangaID", m.ID, "error", err)
					e.co.Notify.Notify(noticeCoverFailed)
					return
				}
				e.co.Notify.Notify(noticeCoverUpdated)
				// Refresh the rendered cover.
				e.republish()
			})
		}()
	})
}

// CancelCoverFile discards a pending cover request.
func (e *Engine) CancelCoverFile(token int) {
	e.post(func() {
		if e.pendingCover != nil && e.pendingCover.token == token {
			e.pendingCover = nil
		}
	})
}

func mangaIDs(items []domain.Manga) []int64 {
	ids := make([]int64, len(items))
	for i, m := range items {
		ids[i] = m.ID
	}
	return ids
}
