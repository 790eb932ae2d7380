package eligibility

// referenceQuestions is the quiz shown by the loan checker. Weights add up
// to 100 so the score reads as a percentage.
var referenceQuestions = []Question{ //nolint:gochecknoglobals // immutable reference data
	{
		Prompt:        "What is your employment status?",
		Options:       []string{"Employed", "Self-Employed", "Unemployed", "Student"},
		CorrectAnswer: "Employed",
		Weight:        15,
		Tip:           "Stable employment improves your loan eligibility. Lenders typically look for at least 6 months with your current employer.",
	},
	{
		Prompt:        "What is your approximate monthly income?",
		Options:       []string{"Less than $1,000", "$1,000 - $5,000", "$5,000 - $10,000", "More than $10,000"},
		CorrectAnswer: "$5,000 - $10,000",
		Weight:        20,
		Tip:           "Lenders typically want to see that your monthly loan payment won't exceed 30-40% of your monthly income.",
	},
	{
		Prompt:        "What is your credit score range?",
		Options:       []string{"Below 500", "500-650", "650-750", "Above 750"},
		CorrectAnswer: "650-750",
		Weight:        20,
		Tip:           "Your credit score is crucial for loan approval. Scores above 700 typically qualify for the best interest rates.",
	},
	{
		Prompt:        "What type of loan are you applying for?",
		Options:       []string{"Personal Loan", "Home Loan", "Car Loan", "Business Loan"},
		CorrectAnswer: "Personal Loan",
		Weight:        5,
		Tip:           "Different loan types have different requirements. Personal loans typically have higher interest rates but fewer restrictions.",
	},
	{
		Prompt:        "What is the loan amount you need?",
		Options:       []string{"Less than $10,000", "$10,000 - $50,000", "$50,000 - $100,000", "More than $100,000"},
		CorrectAnswer: "$10,000 - $50,000",
		Weight:        5,
		Tip:           "Request only what you need. Larger loans mean higher payments and potentially stricter eligibility requirements.",
	},
	{
		Prompt:        "Do you have any existing loans?",
		Options:       []string{"Yes", "No"},
		CorrectAnswer: "No",
		Weight:        10,
		Tip:           "Multiple existing loans can impact your debt-to-income ratio, potentially reducing your eligibility for new loans.",
	},
	{
		Prompt:        "What is your age group?",
		Options:       []string{"18-25", "26-35", "36-50", "Above 50"},
		CorrectAnswer: "26-35",
		Weight:        5,
		Tip:           "Age can influence loan terms. Younger borrowers may face higher rates due to limited credit history.",
	},
	{
		Prompt:        "Do you have any collateral for the loan?",
		Options:       []string{"Yes", "No"},
		CorrectAnswer: "Yes",
		Weight:        10,
		Tip:           "Collateral can significantly improve loan terms and approval chances by reducing the lender's risk.",
	},
	{
		Prompt:        "What is the purpose of the loan?",
		Options:       []string{"Education", "Business", "Home Improvement", "Medical Expenses"},
		CorrectAnswer: "Business",
		Weight:        5,
		Tip:           "Lenders evaluate loan purpose to assess risk. Business loans may require additional documentation.",
	},
	{
		Prompt:        "How long do you plan to repay the loan?",
		Options:       []string{"Less than 1 year", "1-3 years", "3-5 years", "More than 5 years"},
		CorrectAnswer: "3-5 years",
		Weight:        5,
		Tip:           "Longer repayment terms mean lower monthly payments but more interest paid over the life of the loan.",
	},
}

// ReferenceQuiz returns the ten-question loan checker quiz.
func ReferenceQuiz() Quiz {
	quiz, err := NewQuiz(referenceQuestions)
	if err != nil {
		panic("eligibility: reference quiz is invalid: " + err.Error())
	}
	return quiz
}
