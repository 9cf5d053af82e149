package statsapi

type idRef struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Name     string `json:"name,omitempty"`
}

type codeRef struct {
	Code         string `json:"code"`
	Description  string `json:"description,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

type scheduleEnvelope struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Date  string         `json:"date"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GamePk       int64          `json:"gamePk"`
	Link         string         `json:"link"`
	GameType     string         `json:"gameType"`
	Season       string         `json:"season"`
	GameDate     string         `json:"gameDate"`
	OfficialDate string         `json:"officialDate"`
	Status       scheduleStatus `json:"status"`
	Teams        struct {
		Away scheduleTeam `json:"away"`
		Home scheduleTeam `json:"home"`
	} `json:"teams"`
	Venue        idRef  `json:"venue"`
	DoubleHeader string `json:"doubleHeader"`
	GameNumber   int    `json:"gameNumber"`
}

type scheduleStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	CodedGameState    string `json:"codedGameState"`
	DetailedState     string `json:"detailedState"`
	StatusCode        string `json:"statusCode"`
}

type scheduleTeam struct {
	Team idRef `json:"team"`
}

type boxScoreEnvelope struct {
	Teams struct {
		Away boxScoreTeam `json:"away"`
		Home boxScoreTeam `json:"home"`
	} `json:"teams"`
	Officials []boxScoreOfficial `json:"officials"`
	Info      []labelValue       `json:"info"`
}

type boxScoreTeam struct {
	Team         idRef                     `json:"team"`
	Players      map[string]boxScorePlayer `json:"players"`
	Batters      []int64                   `json:"batters"`
	Pitchers     []int64                   `json:"pitchers"`
	BattingOrder []int64                   `json:"battingOrder"`
}

type boxScorePlayer struct {
	Person       idRef     `json:"person"`
	Position     codeRef   `json:"position"`
	AllPositions []codeRef `json:"allPositions"`
	BattingOrder string    `json:"battingOrder"`
	GameStatus   struct {
		IsSubstitute bool `json:"isSubstitute"`
	} `json:"gameStatus"`
}

type boxScoreOfficial struct {
	Official     idRef  `json:"official"`
	OfficialType string `json:"officialType"`
}

type labelValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type venuesEnvelope struct {
	Venues []venueItem `json:"venues"`
}

type venueItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Season   string `json:"season"`
	Location struct {
		City        string `json:"city"`
		State       string `json:"state"`
		StateAbbrev string `json:"stateAbbrev"`
		Elevation   *int   `json:"elevation"`
	} `json:"location"`
	FieldInfo struct {
		TurfType  string `json:"turfType"`
		RoofType  string `json:"roofType"`
		LeftLine  *int   `json:"leftLine"`
		Center    *int   `json:"center"`
		RightLine *int   `json:"rightLine"`
	} `json:"fieldInfo"`
}

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	LocationName string `json:"locationName"`
	Season       int    `json:"season"`
	League       idRef  `json:"league"`
	Division     idRef  `json:"division"`
	Sport        idRef  `json:"sport"`
	ParentOrgID  int64  `json:"parentOrgId"`
	Venue        idRef  `json:"venue"`
}

type coachesEnvelope struct {
	Roster []coachItem `json:"roster"`
}

type coachItem struct {
	Person idRef  `json:"person"`
	JobID  string `json:"jobId"`
	Job    string `json:"job"`
	Title  string `json:"title"`
}

type peopleEnvelope struct {
	People []personItem `json:"people"`
}

type personItem struct {
	ID               int64    `json:"id"`
	FullName         string   `json:"fullName"`
	BatSide          codeRef  `json:"batSide"`
	PitchHand        codeRef  `json:"pitchHand"`
	PrimaryPosition  codeRef  `json:"primaryPosition"`
	BirthDate        string   `json:"birthDate"`
	Height           string   `json:"height"`
	Weight           *int     `json:"weight"`
	MLBDebutDate     string   `json:"mlbDebutDate"`
	StrikeZoneTop    *float64 `json:"strikeZoneTop"`
	StrikeZoneBottom *float64 `json:"strikeZoneBottom"`
}

type feedEnvelope struct {
	GamePk   int64 `json:"gamePk"`
	GameData struct {
		Weather struct {
			Condition string `json:"condition"`
			Temp      string `json:"temp"`
			Wind      string `json:"wind"`
		} `json:"weather"`
		GameInfo struct {
			FirstPitch          string `json:"firstPitch"`
			GameDurationMinutes *int   `json:"gameDurationMinutes"`
		} `json:"gameInfo"`
		Datetime struct {
			DayNight string `json:"dayNight"`
		} `json:"datetime"`
		Game struct {
			Pk int64 `json:"pk"`
		} `json:"game"`
		Status struct {
			ScheduledInnings int `json:"scheduledInnings"`
		} `json:"status"`
	} `json:"gameData"`
	LiveData struct {
		Plays struct {
			AllPlays []feedPlay `json:"allPlays"`
		} `json:"plays"`
	} `json:"liveData"`
}

type feedPlay struct {
	Result struct {
		Type        string `json:"type"`
		Event       string `json:"event"`
		EventType   string `json:"eventType"`
		Description string `json:"description"`
		RBI         int    `json:"rbi"`
		IsOut       bool   `json:"isOut"`
	} `json:"result"`
	About struct {
		AtBatIndex  int  `json:"atBatIndex"`
		Inning      int  `json:"inning"`
		IsTopInning bool `json:"isTopInning"`
	} `json:"about"`
	Matchup struct {
		Batter    idRef   `json:"batter"`
		BatSide   codeRef `json:"batSide"`
		Pitcher   idRef   `json:"pitcher"`
		PitchHand codeRef `json:"pitchHand"`
	} `json:"matchup"`
	PlayEvents []feedEvent  `json:"playEvents"`
	Runners    []feedRunner `json:"runners"`
}

type feedEvent struct {
	Index       int    `json:"index"`
	PlayID      string `json:"playId"`
	PitchNumber int    `json:"pitchNumber"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsPitch     bool   `json:"isPitch"`
	Type        string `json:"type"`
	Details     struct {
		Call        codeRef `json:"call"`
		Description string  `json:"description"`
		Code        string  `json:"code"`
		EventType   string  `json:"eventType"`
		IsInPlay    bool    `json:"isInPlay"`
		IsStrike    bool    `json:"isStrike"`
		IsBall      bool    `json:"isBall"`
		HasReview   bool    `json:"hasReview"`
		Type        codeRef `json:"type"`
	} `json:"details"`
	Player         idRef          `json:"player"`
	ReplacedPlayer idRef          `json:"replacedPlayer"`
	Position       codeRef        `json:"position"`
	PitchData      *feedPitchData `json:"pitchData"`
	HitData        *feedHitData   `json:"hitData"`
}

type feedPitchData struct {
	StartSpeed       *float64 `json:"startSpeed"`
	EndSpeed         *float64 `json:"endSpeed"`
	StrikeZoneTop    *float64 `json:"strikeZoneTop"`
	StrikeZoneBottom *float64 `json:"strikeZoneBottom"`
	Coordinates      struct {
		PX   *float64 `json:"pX"`
		PZ   *float64 `json:"pZ"`
		PfxX *float64 `json:"pfxX"`
		PfxZ *float64 `json:"pfxZ"`
		X0   *float64 `json:"x0"`
		Y0   *float64 `json:"y0"`
		Z0   *float64 `json:"z0"`
		VX0  *float64 `json:"vX0"`
		VY0  *float64 `json:"vY0"`
		VZ0  *float64 `json:"vZ0"`
		AX   *float64 `json:"aX"`
		AY   *float64 `json:"aY"`
		AZ   *float64 `json:"aZ"`
	} `json:"coordinates"`
	Breaks struct {
		BreakAngle           *float64 `json:"breakAngle"`
		BreakLength          *float64 `json:"breakLength"`
		BreakY               *float64 `json:"breakY"`
		BreakVerticalInduced *float64 `json:"breakVerticalInduced"`
		BreakHorizontal      *float64 `json:"breakHorizontal"`
		SpinRate             *float64 `json:"spinRate"`
		SpinDirection        *float64 `json:"spinDirection"`
	} `json:"breaks"`
	Zone      *int     `json:"zone"`
	PlateTime *float64 `json:"plateTime"`
	Extension *float64 `json:"extension"`
}

type feedHitData struct {
	LaunchSpeed   *float64 `json:"launchSpeed"`
	LaunchAngle   *float64 `json:"launchAngle"`
	TotalDistance *float64 `json:"totalDistance"`
	Trajectory    string   `json:"trajectory"`
	Hardness      string   `json:"hardness"`
	Location      string   `json:"location"`
	Coordinates   struct {
		CoordX *float64 `json:"coordX"`
		CoordY *float64 `json:"coordY"`
	} `json:"coordinates"`
}

type feedRunner struct {
	Movement struct {
		Start     *string `json:"start"`
		End       *string `json:"end"`
		OutBase   *string `json:"outBase"`
		IsOut     bool    `json:"isOut"`
		OutNumber *int    `json:"outNumber"`
	} `json:"movement"`
	Details struct {
		EventType          string `json:"eventType"`
		Runner             idRef  `json:"runner"`
		ResponsiblePitcher *idRef `json:"responsiblePitcher"`
		IsScoringEvent     bool   `json:"isScoringEvent"`
		PlayIndex          int    `json:"playIndex"`
	} `json:"details"`
}
