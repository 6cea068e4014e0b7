package models

// StudentStanding is one student's ranked slot within a cohort.
type StudentStanding struct {
	StudentID   string  `json:"studentId"`
	StudentName string  `json:"studentName"`
	Average     float64 `json:"average"`
	Position    int     `json:"position"`
}

// SubjectStatistics summarises one subject's scores across a cohort.
type SubjectStatistics struct {
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// SubjectStandings holds the ranked cohort for one subject.
type SubjectStandings struct {
	SubjectID   string            `json:"subjectId"`
	SubjectName string            `json:"subjectName"`
	Standings   []StudentStanding `json:"standings"`
	Stats       SubjectStatistics `json:"stats"`
}

// ClassStatistics summarises overall averages across a cohort.
type ClassStatistics struct {
	HighestAverage float64 `json:"highestAverage"`
	LowestAverage  float64 `json:"lowestAverage"`
	ClassAverage   float64 `json:"classAverage"`
	StudentCount   int     `json:"studentCount"`
}

// PositionReport is the full cohort listing for a class/period scope.
type PositionReport struct {
	OverallPositions []StudentStanding           `json:"overallPositions"`
	SubjectPositions map[string]SubjectStandings `json:"subjectPositions"`
	ClassStats       ClassStatistics             `json:"classStats"`
}

// StudentSubjectPosition is one student's rank within a single subject.
type StudentSubjectPosition struct {
	SubjectID   string            `json:"subjectId"`
	SubjectName string            `json:"subjectName"`
	Score       float64           `json:"score"`
	Position    int               `json:"position"`
	Stats       SubjectStatistics `json:"stats"`
}

// StudentPositionReport is one student's slice of the cohort report.
type StudentPositionReport struct {
	Student          StudentStanding          `json:"student"`
	SubjectPositions []StudentSubjectPosition `json:"subjectPositions"`
	ClassStats       ClassStatistics          `json:"classStats"`
}

// PromotionEligibility is one row of the promotion evaluation output.
type PromotionEligibility struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	AnnualAverage float64 `json:"annualAverage"`
	ResultsCount  int     `json:"resultsCount"`
	IsEligible    bool    `json:"isEligible"`
}
