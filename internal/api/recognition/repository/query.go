package recognitionRepository

const (
	queryListEnrolled = `
SELECT student_number, first_name, last_name, phone_number, face_photo_url, encoding, updated_at
FROM students
    WHERE encoding IS NOT NULL
ORDER BY student_number`

	queryGetStudent = `
SELECT student_number, first_name, last_name, phone_number, face_photo_url, encoding, updated_at
FROM students
    WHERE student_number = :student_number`

	queryUpsertEncoding = `
UPDATE students
SET encoding = :encoding,
    face_photo_url = :face_photo_url,
    updated_at = :updated_at
WHERE student_number = :student_number`

	queryCountEnrolled = `
SELECT COUNT(*)
FROM students
    WHERE encoding IS NOT NULL`

	queryDeleteEncoding = `
UPDATE students
SET encoding = NULL,
    face_photo_url = '',
    updated_at = :updated_at
WHERE student_number = :student_number`
)
