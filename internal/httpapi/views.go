package httpapi

import (
	"fmt"

	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/wizard"
)

type photoView struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	PreviewURL  string `json:"previewUrl"`
}

type wizardView struct {
	ID         string         `json:"id"`
	Step       int            `json:"step"`
	StepName   string         `json:"stepName"`
	StepTitle  string         `json:"stepTitle"`
	Final      bool           `json:"final"`
	Submitting bool           `json:"submitting"`
	Draft      property.Draft `json:"draft"`
	Photos     []photoView    `json:"photos"`
}

type noticeView struct {
	Kind    wizard.UploadErrorKind `json:"kind"`
	File    string                 `json:"file,omitempty"`
	Message string                 `json:"message"`
}

type addPhotosView struct {
	Added   []photoView  `json:"added"`
	Notices []noticeView `json:"notices"`
	Wizard  wizardView   `json:"wizard"`
}

func newWizardView(w *wizard.Wizard) wizardView {
	step := w.Step()
	photos := w.Photos()
	v := wizardView{
		ID:         w.ID(),
		Step:       int(step),
		StepName:   step.String(),
		StepTitle:  step.Title(),
		Final:      step == wizard.StepPhotos,
		Submitting: w.Submitting(),
		Draft:      w.Draft(),
		Photos:     make([]photoView, 0, len(photos)),
	}
	for i, p := range photos {
		v.Photos = append(v.Photos, newPhotoView(w.ID(), i, p))
	}
	return v
}

func newPhotoView(wizardID string, index int, p wizard.Photo) photoView {
	return photoView{
		Index:       index,
		ID:          p.ID,
		Name:        p.Name,
		ContentType: p.ContentType,
		Size:        p.Size(),
		PreviewURL:  fmt.Sprintf("/api/wizards/%s/photos/%d/preview", wizardID, index),
	}
}

func newNoticeViews(notices []*wizard.UploadError) []noticeView {
	out := make([]noticeView, 0, len(notices))
	for _, n := range notices {
		out = append(out, noticeView{Kind: n.Kind, File: n.File, Message: n.Error()})
	}
	return out
}
