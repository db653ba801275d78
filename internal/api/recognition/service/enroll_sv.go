package recognitionService

import (
	"AttendanceGolang/internal/api/recognition"
	contextPkg "AttendanceGolang/pkg/context"
	"io"
	"mime/multipart"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// EnrollFace extracts an encoding from each supplied image and stores their
// element-wise average as the student's reference encoding. Averaging over
// several shots smooths out lighting and pose, so one bad photo does not
// anchor the student's identity.
func (s *recognitionService) EnrollFace(ctx context.Context, studentNumber string, files []*multipart.FileHeader) (recognition.EnrollResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.recognitionRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return recognition.EnrollResponse{}, err
	}

	if _, err := repo.Faces.GetStudent(ctx, studentNumber); err != nil {
		return recognition.EnrollResponse{}, err
	}

	var encodings [][]float64
	for _, file := range files {
		image, err := readImage(file)
		if err != nil {
			return recognition.EnrollResponse{}, err
		}

		encoding, err := s.encoder.Extract(ctx, image)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"student_number": studentNumber,
				"error":          err.Error(),
			}).Error("Encoding extraction failed during enrollment")
			return recognition.EnrollResponse{}, err
		}
		if encoding == nil {
			// Zero faces or a crowd shot: useless for enrollment.
			continue
		}

		encodings = append(encodings, encoding)
	}

	if len(encodings) == 0 {
		return recognition.EnrollResponse{}, recognition.ErrNoFaceInFrames
	}

	averaged := averageEncodings(encodings)

	photoURL := ""
	if s.s3 != nil && len(files) > 0 {
		photoURL, err = s.s3.UploadFacePhoto(studentNumber, files[0])
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"student_number": studentNumber,
				"error":          err.Error(),
			}).Warn("Failed to upload enrollment photo, storing encoding without it")
			photoURL = ""
		}
	}

	if err := repo.Faces.UpsertEncoding(ctx, studentNumber, pq.Float64Array(averaged), photoURL); err != nil {
		return recognition.EnrollResponse{}, err
	}

	s.cache.Invalidate()

	s.log.WithFields(logrus.Fields{
		"request_id":     requestID,
		"student_number": studentNumber,
		"images_used":    len(encodings),
	}).Info("Face enrolled")

	return recognition.EnrollResponse{
		StudentNumber: studentNumber,
		PhotoURL:      photoURL,
		ImagesUsed:    len(encodings),
		EncodingSize:  len(averaged),
	}, nil
}

func (s *recognitionService) DeleteFace(ctx context.Context, studentNumber string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.recognitionRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	student, err := repo.Faces.GetStudent(ctx, studentNumber)
	if err != nil {
		return err
	}

	if err := repo.Faces.DeleteEncoding(ctx, studentNumber); err != nil {
		return err
	}

	if s.s3 != nil && student.FacePhotoURL != "" {
		if err := s.s3.DeleteFile(student.FacePhotoURL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"student_number": studentNumber,
				"error":          err.Error(),
			}).Warn("Failed to delete enrollment photo")
		}
	}

	s.cache.Invalidate()

	return nil
}

func (s *recognitionService) FacePhotoURL(ctx context.Context, studentNumber string) (string, error) {
	repo, err := s.recognitionRepository.NewClient(false)
	if err != nil {
		return "", err
	}

	student, err := repo.Faces.GetStudent(ctx, studentNumber)
	if err != nil {
		return "", err
	}
	if student.FacePhotoURL == "" {
		return "", recognition.ErrStudentNotFound
	}

	return s.s3.PresignUrl(student.FacePhotoURL)
}

func averageEncodings(encodings [][]float64) []float64 {
	size := len(encodings[0])
	averaged := make([]float64, size)
	for _, encoding := range encodings {
		for i := 0; i < size && i < len(encoding); i++ {
			averaged[i] += encoding[i]
		}
	}
	for i := range averaged {
		averaged[i] /= float64(len(encodings))
	}
	return averaged
}

func readImage(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}
